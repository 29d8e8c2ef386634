package judge

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// ProblemSummary is one row of the problemset listing.
type ProblemSummary struct {
	ProblemID  string   `json:"problemId"`
	Title      string   `json:"title"`
	URL        string   `json:"url,omitempty"`
	Accepted   bool     `json:"accepted"`
	Solved     *int     `json:"solved,omitempty"`
	Submitted  *int     `json:"submitted,omitempty"`
	Acceptance *float64 `json:"acceptance,omitempty"`
}

// Problem is the scraped problem detail, reduced to plain text.
type Problem struct {
	ProblemID    string            `json:"problemId"`
	Title        string            `json:"title"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	Description  string            `json:"description,omitempty"`
	Input        string            `json:"input,omitempty"`
	Output       string            `json:"output,omitempty"`
	SampleInput  string            `json:"sampleInput,omitempty"`
	SampleOutput string            `json:"sampleOutput,omitempty"`
	Hint         string            `json:"hint,omitempty"`
	Source       string            `json:"source,omitempty"`
	Tags         []string          `json:"tags,omitempty"`
	URL          string            `json:"url"`

	// Private problems hide their statement behind contest membership.
	IsPrivate       bool          `json:"isPrivate,omitempty"`
	PrivateMessage  string        `json:"privateMessage,omitempty"`
	PrivateContests []ContestLink `json:"privateContests,omitempty"`
}

// ContestLink names a contest a private problem belongs to.
type ContestLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// sectionAliases maps canonical section keys to the CN/EN headers the
// judge renders them under.
var sectionAliases = map[string][]string{
	"description":   {"题目描述", "Description"},
	"input":         {"输入", "Input"},
	"output":        {"输出", "Output"},
	"sample_input":  {"样例输入", "Sample Input", "Sample Inputs", "Sample"},
	"sample_output": {"样例输出", "Sample Output", "Sample Outputs", "Samples"},
	"hint":          {"提示", "Hint", "HINT"},
	"source":        {"来源/分类", "Source/Category", "Source"},
}

// FetchProblemset walks the paged problem listing starting at startPage.
// maxPages <= 0 follows pagination to the end. The result maps page
// number to its rows.
func (c *Client) FetchProblemset(ctx context.Context, startPage, maxPages int) (map[int][]ProblemSummary, error) {
	if startPage <= 0 {
		startPage = 1
	}
	page := startPage
	fetched := 0
	results := make(map[int][]ProblemSummary)

	for {
		doc, _, err := c.fetch(ctx, "problemset.php", url.Values{"page": {strconv.Itoa(page)}})
		if err != nil {
			return nil, err
		}
		results[page] = c.parseProblemsetRows(doc)
		fetched++
		if maxPages > 0 && fetched >= maxPages {
			break
		}

		next := elemByID(doc, "a", "page_next")
		if next == nil || hasClasses(next, "disabled") {
			break
		}
		nextPage, ok := pageNumber(attrVal(next, "href"))
		if !ok || nextPage == page {
			break
		}
		page = nextPage
	}
	return results, nil
}

func (c *Client) parseProblemsetRows(doc *html.Node) []ProblemSummary {
	table := findFirst(doc, func(n *html.Node) bool {
		return isElem(n, "table") && hasClasses(n, "ui", "very", "basic", "center", "aligned", "table")
	})
	if table == nil {
		return nil
	}
	var problems []ProblemSummary
	for _, row := range tableRows(table) {
		cols := childElems(row, "td")
		if len(cols) < 5 {
			continue
		}
		var p ProblemSummary

		status := findFirst(cols[0], func(n *html.Node) bool {
			return isElem(n, "span") && hasClasses(n, "status")
		})
		p.Accepted = status != nil && hasClasses(status, "accepted")

		p.ProblemID = trimmedText(cols[1])

		link := findFirst(cols[2], func(n *html.Node) bool { return isElem(n, "a") })
		if link != nil {
			p.Title = trimmedText(link)
			if href := attrVal(link, "href"); href != "" {
				p.URL = c.resolve(href)
			}
		} else {
			p.Title = trimmedText(cols[2])
		}

		if solved, submitted, ok := strings.Cut(trimmedText(cols[3]), "/"); ok {
			if v, err := strconv.Atoi(strings.TrimSpace(solved)); err == nil {
				p.Solved = &v
			}
			if v, err := strconv.Atoi(strings.TrimSpace(submitted)); err == nil {
				p.Submitted = &v
			}
		}

		bar := findFirst(cols[4], func(n *html.Node) bool {
			return isElem(n, "div") && hasClasses(n, "progress-bar")
		})
		if bar != nil {
			if v, err := strconv.ParseFloat(strings.TrimSuffix(trimmedText(bar), "%"), 64); err == nil {
				p.Acceptance = &v
			}
		}

		problems = append(problems, p)
	}
	return problems
}

// pageNumber extracts the page query parameter from a pagination href.
func pageNumber(href string) (int, bool) {
	u, err := url.Parse(href)
	if err != nil {
		return 0, false
	}
	v := u.Query().Get("page")
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// FetchProblem scrapes one problem page into plain-text sections.
func (c *Client) FetchProblem(ctx context.Context, problemID string) (*Problem, error) {
	doc, _, err := c.fetch(ctx, "problem.php", url.Values{"id": {problemID}})
	if err != nil {
		return nil, err
	}
	problemURL := c.resolve("problem.php?id=" + url.QueryEscape(problemID))

	// contest-private problems render a negative notice instead of the statement
	if notice := findFirst(doc, func(n *html.Node) bool {
		return isElem(n, "div") && hasClasses(n, "ui", "negative", "icon", "message")
	}); notice != nil {
		p := &Problem{
			ProblemID:      problemID,
			URL:            problemURL,
			IsPrivate:      true,
			PrivateMessage: normalizeParagraph(text(notice)),
		}
		for _, link := range findAll(notice, func(n *html.Node) bool {
			return isElem(n, "a") && strings.Contains(attrVal(n, "href"), "contest.php")
		}) {
			href := attrVal(link, "href")
			name := trimmedText(link)
			if name == "" {
				name = href
			}
			p.PrivateContests = append(p.PrivateContests, ContestLink{
				Name: name,
				URL:  c.resolve(href),
			})
		}
		return p, nil
	}

	p := &Problem{
		ProblemID: problemID,
		URL:       problemURL,
		Metadata:  collectLabels(doc),
	}
	if id, title := problemHeader(doc); title != "" {
		if id != "" {
			p.ProblemID = id
		}
		p.Title = title
	}

	sections := collectSections(doc)
	section := func(key string) string {
		for _, alias := range sectionAliases[key] {
			if v, ok := sections[alias]; ok && v != "" {
				return v
			}
		}
		return ""
	}
	p.Description = normalizeParagraph(section("description"))
	p.Input = normalizeParagraph(section("input"))
	p.Output = normalizeParagraph(section("output"))
	p.SampleInput = normalizeSample(section("sample_input"))
	p.SampleOutput = normalizeSample(section("sample_output"))
	p.Hint = normalizeParagraph(section("hint"))
	p.Source = normalizeParagraph(section("source"))

	if tagDiv := elemByID(doc, "div", "show_tag_div"); tagDiv != nil {
		for _, a := range findAll(tagDiv, func(n *html.Node) bool { return isElem(n, "a") }) {
			if tag := trimmedText(a); tag != "" {
				p.Tags = append(p.Tags, tag)
			}
		}
	}
	return p, nil
}

// problemHeader splits the "<id>: <title>" page heading.
func problemHeader(doc *html.Node) (id, title string) {
	h1 := findFirst(doc, func(n *html.Node) bool {
		return isElem(n, "h1") && hasClasses(n, "ui", "header")
	})
	if h1 == nil {
		return "", ""
	}
	raw := trimmedText(h1)
	if left, right, ok := strings.Cut(raw, ":"); ok {
		return strings.TrimSpace(left), strings.TrimSpace(right)
	}
	return "", raw
}

// collectLabels reads the "key：value" metadata labels (time limit,
// memory limit and friends).
func collectLabels(doc *html.Node) map[string]string {
	metadata := make(map[string]string)
	for _, span := range findAll(doc, func(n *html.Node) bool {
		return isElem(n, "span") && hasClasses(n, "ui", "label")
	}) {
		txt := trimmedText(span)
		if key, value, ok := strings.Cut(txt, "："); ok {
			metadata[key] = strings.TrimSpace(value)
		}
	}
	if len(metadata) == 0 {
		return nil
	}
	return metadata
}

// collectSections pairs each h4 section header with the text of the
// segment div that follows it.
func collectSections(doc *html.Node) map[string]string {
	sections := make(map[string]string)
	for _, header := range findAll(doc, func(n *html.Node) bool {
		return isElem(n, "h4") && hasClasses(n, "ui")
	}) {
		title := sanitizeSectionTitle(trimmedText(header))
		if title == "" {
			continue
		}
		for sib := header.NextSibling; sib != nil; sib = sib.NextSibling {
			if isElem(sib, "div") && hasClasses(sib, "ui", "bottom", "attached", "segment") {
				sections[title] = text(sib)
				break
			}
		}
	}
	return sections
}

// sanitizeSectionTitle strips the copy-button artifacts the judge embeds
// in section headers.
func sanitizeSectionTitle(raw string) string {
	cleaned := strings.ReplaceAll(raw, "：", " ")
	var tokens []string
	for _, tok := range strings.Fields(cleaned) {
		if tok == "复制" || tok == "Copy" {
			continue
		}
		tokens = append(tokens, tok)
	}
	if len(tokens) == 0 {
		return strings.TrimSpace(raw)
	}
	return strings.Join(tokens, " ")
}

const nbsp = " "

// normalizeParagraph canonicalizes prose text: LF endings, NBSP to
// space, per-line right trim, consecutive blank lines collapsed, no
// trailing blank lines.
func normalizeParagraph(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, nbsp, " ")
	var out []string
	blankPending := false
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimRight(line, " \t")
		if line != "" {
			out = append(out, line)
			blankPending = false
		} else if len(out) > 0 && !blankPending {
			out = append(out, "")
			blankPending = true
		}
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}

// normalizeSample canonicalizes sample input/output text. Unlike
// normalizeParagraph it keeps interior spacing intact and only strips
// carriage returns per line, since samples are byte-significant.
func normalizeSample(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, nbsp, " ")
	var out []string
	blankPending := false
	for _, line := range strings.Split(s, "\n") {
		if line != "" {
			out = append(out, line)
			blankPending = false
		} else if len(out) > 0 && !blankPending {
			out = append(out, "")
			blankPending = true
		}
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}
