package judge

import (
	"context"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// Verdict codes reported by the judge.
const (
	VerdictPending         = 0
	VerdictPendingRejudge  = 1
	VerdictCompiling       = 2
	VerdictRunning         = 3
	VerdictAccepted        = 4
	VerdictPresentationErr = 5
	VerdictWrongAnswer     = 6
	VerdictTimeLimit       = 7
	VerdictMemoryLimit     = 8
	VerdictOutputLimit     = 9
	VerdictRuntimeError    = 10
	VerdictCompileError    = 11
)

// verdictTexts maps the judge's numeric result codes to readable text.
var verdictTexts = map[int]string{
	0:  "Pending",
	1:  "Pending Rejudge",
	2:  "Compiling",
	3:  "Running & Judging",
	4:  "Accepted",
	5:  "Presentation Error",
	6:  "Wrong Answer",
	7:  "Time Limit Exceeded",
	8:  "Memory Limit Exceeded",
	9:  "Output Limit Exceeded",
	10: "Runtime Error",
	11: "Compile Error",
	12: "Compile OK",
	13: "Run Complete",
	14: "Waiting Manual Confirm",
	15: "Submitting",
	16: "Remote Pending",
	17: "Remote Judging",
}

// VerdictText renders a verdict code for display.
func VerdictText(code int) string {
	if t, ok := verdictTexts[code]; ok {
		return t
	}
	return "Unknown"
}

// Terminal reports whether a verdict code is final: the judge keeps
// mutating a submission row until it reaches Accepted or beyond.
func Terminal(code int) bool {
	return code >= VerdictAccepted
}

// StatusEntry is one row of the submission status table.
type StatusEntry struct {
	SolutionID  *int   `json:"solutionId,omitempty"`
	User        string `json:"user,omitempty"`
	Nickname    string `json:"nickname,omitempty"`
	ProblemID   string `json:"problemId,omitempty"`
	ResultCode  *int   `json:"resultCode,omitempty"`
	ResultText  string `json:"resultText,omitempty"`
	Memory      string `json:"memory,omitempty"`
	Time        string `json:"time,omitempty"`
	Language    string `json:"language,omitempty"`
	CodeLength  string `json:"codeLength,omitempty"`
	SubmittedAt string `json:"submittedAt,omitempty"`
}

// FetchStatusList lists the most recent submissions of userID, newest
// first as the judge renders them.
func (c *Client) FetchStatusList(ctx context.Context, userID string, limit int) ([]StatusEntry, error) {
	doc, _, err := c.fetch(ctx, "status.php", url.Values{"user_id": {userID}})
	if err != nil {
		return nil, err
	}
	return parseStatusEntries(doc, limit), nil
}

var solutionIDRe = regexp.MustCompile(`sid=\s*(\d+)`)

// statusTable locates the submission table: known ids first, then any
// table whose headers look like the status listing.
func statusTable(doc *html.Node) *html.Node {
	if t := elemByID(doc, "table", "result-tab"); t != nil {
		return t
	}
	if t := elemByID(doc, "table", "table"); t != nil {
		return t
	}
	known := map[string]bool{"提交编号": true, "用户": true, "题目编号": true, "结果": true}
	for _, table := range findAll(doc, func(n *html.Node) bool { return isElem(n, "table") }) {
		for _, th := range findAll(table, func(n *html.Node) bool { return isElem(n, "th") }) {
			if known[trimmedText(th)] {
				return table
			}
		}
	}
	return nil
}

// parseStatusEntries handles both table layouts the judge serves: ten
// columns with a leading solution id, or nine without one.
func parseStatusEntries(doc *html.Node, limit int) []StatusEntry {
	table := statusTable(doc)
	if table == nil {
		return nil
	}

	var entries []StatusEntry
	for _, row := range tableRows(table) {
		cells := childElems(row, "td")
		if len(cells) < 8 {
			continue
		}

		offset := 0
		var entry StatusEntry
		if len(cells) >= 10 {
			if id, err := strconv.Atoi(trimmedText(cells[0])); err == nil {
				entry.SolutionID = &id
			}
			offset = 1
		}

		entry.User = trimmedText(cells[offset])
		entry.Nickname = trimmedText(cells[offset+1])
		entry.ProblemID = trimmedText(cells[offset+2])

		resultCell := cells[offset+3]
		if span := findFirst(resultCell, func(n *html.Node) bool {
			return isElem(n, "span") && attrVal(n, "result") != ""
		}); span != nil {
			if code, err := strconv.Atoi(attrVal(span, "result")); err == nil {
				entry.ResultCode = &code
			}
		}
		entry.ResultText = trimmedText(resultCell)

		entry.Memory = placeholderToEmpty(trimmedText(cells[offset+4]))
		entry.Time = placeholderToEmpty(trimmedText(cells[offset+5]))
		entry.Language = trimmedText(cells[offset+6])
		entry.CodeLength = trimmedText(cells[offset+7])
		if len(cells) > offset+8 {
			entry.SubmittedAt = trimmedText(cells[offset+8])
		}

		if entry.SolutionID == nil {
			for _, link := range findAll(resultCell, func(n *html.Node) bool {
				return isElem(n, "a") && attrVal(n, "href") != ""
			}) {
				if m := solutionIDRe.FindStringSubmatch(attrVal(link, "href")); m != nil {
					if id, err := strconv.Atoi(m[1]); err == nil {
						entry.SolutionID = &id
						break
					}
				}
			}
		}

		entries = append(entries, entry)
		if limit > 0 && len(entries) >= limit {
			break
		}
	}
	return entries
}

func placeholderToEmpty(s string) string {
	if s == "---" {
		return ""
	}
	return s
}

// statusKey identifies a status row across refreshes, used to spot the
// row a fresh submission created.
type statusKey struct {
	solutionID  int
	hasSolution bool
	submittedAt string
	resultText  string
	memory      string
	time        string
	problemID   string
	language    string
	codeLength  string
}

func keyOf(e StatusEntry) statusKey {
	k := statusKey{
		submittedAt: e.SubmittedAt,
		resultText:  e.ResultText,
		memory:      e.Memory,
		time:        e.Time,
		problemID:   e.ProblemID,
		language:    e.Language,
		codeLength:  e.CodeLength,
	}
	if e.SolutionID != nil {
		k.solutionID = *e.SolutionID
		k.hasSolution = true
	}
	return k
}

// sortOrder ranks entries so the newest submission is tried first.
func sortOrder(e StatusEntry) (int, string) {
	id := -1
	if e.SolutionID != nil {
		id = *e.SolutionID
	}
	return id, e.SubmittedAt
}

func newerThan(a, b StatusEntry) bool {
	aid, at := sortOrder(a)
	bid, bt := sortOrder(b)
	if aid != bid {
		return aid > bid
	}
	return strings.Compare(at, bt) > 0
}
