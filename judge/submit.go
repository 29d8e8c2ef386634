package judge

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// SubmitRequest describes one solution submission.
type SubmitRequest struct {
	UserID    string
	ProblemID string
	Source    string
	// Language is the judge's numeric language code.
	Language int
	// ContestProblemID is set when submitting inside a contest.
	ContestProblemID *int
}

// SubmissionResult is the polled state of one submission.
type SubmissionResult struct {
	SolutionID int    `json:"solutionId"`
	ResultCode int    `json:"resultCode"`
	ResultText string `json:"resultText"`
	Memory     string `json:"memory,omitempty"`
	Time       string `json:"time,omitempty"`
	Extra      string `json:"extra,omitempty"`
	ACRate     string `json:"acRate,omitempty"`
}

// Submit posts a solution and identifies the status row it created by
// diffing the status listing against a pre-submission snapshot.
func (c *Client) Submit(ctx context.Context, req SubmitRequest) (*StatusEntry, error) {
	pre, err := c.FetchStatusList(ctx, req.UserID, 20)
	if err != nil {
		return nil, err
	}
	seen := make(map[statusKey]bool, len(pre))
	for _, e := range pre {
		seen[keyOf(e)] = true
	}

	form, err := c.prepareSubmitForm(ctx, req)
	if err != nil {
		return nil, err
	}

	referer := c.resolve("submitpage.php?id=" + url.QueryEscape(req.ProblemID))
	doc, _, err := c.postForm(ctx, "submit.php", form, http.Header{"Referer": {referer}})
	if err != nil {
		return nil, err
	}
	c.logger.Info("solution submitted",
		zap.String("problem", req.ProblemID), zap.Int("language", req.Language))

	if entry := findNewSubmission(parseStatusEntries(doc, 5), seen); entry != nil {
		return entry, nil
	}

	// the new row can lag behind the redirect; retry with a growing delay
	for attempt := 0; attempt < 20; attempt++ {
		if err := sleepCtx(ctx, time.Duration(attempt+1)*500*time.Millisecond); err != nil {
			return nil, err
		}
		entries, err := c.FetchStatusList(ctx, req.UserID, 20)
		if err != nil {
			return nil, err
		}
		if entry := findNewSubmission(entries, seen); entry != nil {
			return entry, nil
		}
	}
	return nil, errors.New("submission did not appear in the status list")
}

// prepareSubmitForm scrapes the submission page form so hidden fields
// (CSRF and friends) are carried along, then overrides the payload.
func (c *Client) prepareSubmitForm(ctx context.Context, req SubmitRequest) (url.Values, error) {
	doc, _, err := c.fetch(ctx, "submitpage.php", url.Values{"id": {req.ProblemID}})
	if err != nil {
		return nil, err
	}
	form := elemByID(doc, "form", "submit_code")
	if form == nil {
		form = findFirst(doc, func(n *html.Node) bool {
			return isElem(n, "form") && attrVal(n, "action") == "submit.php"
		})
	}
	if form == nil {
		return nil, errors.New("cannot locate the submission form")
	}

	payload := url.Values{}
	for _, input := range findAll(form, func(n *html.Node) bool { return isElem(n, "input") }) {
		name := attrVal(input, "name")
		if name == "" {
			continue
		}
		typ := strings.ToLower(attrVal(input, "type"))
		if (typ == "checkbox" || typ == "radio") && !hasAttr(input, "checked") {
			continue
		}
		payload.Set(name, attrVal(input, "value"))
	}
	for _, ta := range findAll(form, func(n *html.Node) bool { return isElem(n, "textarea") }) {
		name := attrVal(ta, "name")
		if name == "" {
			continue
		}
		payload.Set(name, text(ta))
	}
	for _, sel := range findAll(form, func(n *html.Node) bool { return isElem(n, "select") }) {
		name := attrVal(sel, "name")
		if name == "" {
			continue
		}
		options := findAll(sel, func(n *html.Node) bool { return isElem(n, "option") })
		var chosen *html.Node
		for _, o := range options {
			if hasAttr(o, "selected") {
				chosen = o
				break
			}
		}
		if chosen == nil && len(options) > 0 {
			chosen = options[0]
		}
		if chosen != nil {
			payload.Set(name, attrVal(chosen, "value"))
		}
	}

	payload.Set("id", req.ProblemID)
	payload.Set("language", strconv.Itoa(req.Language))
	payload.Set("source", req.Source)
	if req.ContestProblemID != nil {
		payload.Set("problem_id", strconv.Itoa(*req.ContestProblemID))
	}
	return payload, nil
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

// findNewSubmission returns the newest entry not present in the
// pre-submission snapshot, recording it so retries stay stable.
func findNewSubmission(entries []StatusEntry, seen map[statusKey]bool) *StatusEntry {
	if len(entries) == 0 {
		return nil
	}
	sorted := make([]StatusEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return newerThan(sorted[i], sorted[j]) })
	for i := range sorted {
		k := keyOf(sorted[i])
		if !seen[k] {
			seen[k] = true
			return &sorted[i]
		}
	}
	return nil
}

// QuerySubmission reads the judge's comma-separated ajax status line for
// one solution.
func (c *Client) QuerySubmission(ctx context.Context, solutionID int) (*SubmissionResult, error) {
	target := c.resolve("status-ajax.php") + "?solution_id=" + strconv.Itoa(solutionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	raw, err := readBody(resp)
	if err != nil {
		return nil, err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("empty response from status-ajax endpoint")
	}

	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	code, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid result code in status-ajax response: %q", parts[0])
	}

	res := &SubmissionResult{
		SolutionID: solutionID,
		ResultCode: code,
		ResultText: VerdictText(code),
	}
	if len(parts) > 1 {
		res.Memory = parts[1]
	}
	if len(parts) > 2 {
		res.Time = parts[2]
	}
	if len(parts) > 3 && !strings.EqualFold(parts[3], "none") {
		res.Extra = parts[3]
	}
	if len(parts) > 4 {
		res.ACRate = parts[4]
	}
	return res, nil
}

// PollOptions shape the submission polling loop.
type PollOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	Backoff      float64
}

// DefaultPollOptions mirror the judge's observed settling time.
var DefaultPollOptions = PollOptions{
	MaxAttempts:  12,
	InitialDelay: time.Second,
	Backoff:      1.5,
}

// PollSubmission queries the submission until its verdict is terminal,
// backing off exponentially. The last observed state is returned even
// when attempts run out. The observe callback, when non-nil, sees every
// intermediate state.
func (c *Client) PollSubmission(ctx context.Context, solutionID int, opts PollOptions, observe func(*SubmissionResult)) (*SubmissionResult, error) {
	if opts.MaxAttempts <= 0 {
		opts = DefaultPollOptions
	}
	delay := opts.InitialDelay
	var last *SubmissionResult
	for i := 0; i < opts.MaxAttempts; i++ {
		status, err := c.QuerySubmission(ctx, solutionID)
		if err != nil {
			return last, err
		}
		last = status
		if observe != nil {
			observe(status)
		}
		if Terminal(status.ResultCode) {
			return status, nil
		}
		if err := sleepCtx(ctx, delay); err != nil {
			return last, err
		}
		delay = time.Duration(float64(delay) * opts.Backoff)
	}
	return last, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
