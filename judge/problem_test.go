package judge

import (
	"context"
	"net/http"
	"testing"
)

const problemsetPage = `<html><body>
<table class="ui very basic center aligned table">
<thead><tr><th></th><th>ID</th><th>Title</th><th></th><th></th></tr></thead>
<tbody>
<tr>
  <td><span class="status accepted"></span></td>
  <td>1000</td>
  <td><a href="problem.php?id=1000">A+B Problem</a></td>
  <td>120/340</td>
  <td><div class="progress-bar">35.3%</div></td>
</tr>
<tr>
  <td><span class="status"></span></td>
  <td>1001</td>
  <td><a href="problem.php?id=1001">Hello</a></td>
  <td>-/-</td>
  <td></td>
</tr>
</tbody>
</table>
<a id="page_next" class="disabled" href="problemset.php?page=2">next</a>
</body></html>`

func TestFetchProblemset(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/problemset.php", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(problemsetPage))
	})
	c, srv := newTestClient(t, mux)

	pages, err := c.FetchProblemset(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("FetchProblemset error: %v", err)
	}
	rows := pages[1]
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	first := rows[0]
	if first.ProblemID != "1000" || first.Title != "A+B Problem" {
		t.Errorf("unexpected first row: %+v", first)
	}
	if !first.Accepted {
		t.Error("accepted flag lost")
	}
	if first.Solved == nil || *first.Solved != 120 || first.Submitted == nil || *first.Submitted != 340 {
		t.Errorf("solved/submitted: %+v", first)
	}
	if first.Acceptance == nil || *first.Acceptance != 35.3 {
		t.Errorf("acceptance: %v", first.Acceptance)
	}
	if first.URL != srv.URL+"/problem.php?id=1000" {
		t.Errorf("url = %q", first.URL)
	}
	if rows[1].Accepted {
		t.Error("second row should not be accepted")
	}
	if rows[1].Solved != nil {
		t.Errorf("non-numeric solved should be nil, got %v", *rows[1].Solved)
	}
}

func TestFetchProblemset_FollowsPagination(t *testing.T) {
	page2 := `<html><body>
<table class="ui very basic center aligned table"><tbody>
<tr><td></td><td>1002</td><td>Third</td><td>1/2</td><td></td></tr>
</tbody></table>
</body></html>`
	mux := http.NewServeMux()
	mux.HandleFunc("/problemset.php", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			w.Write([]byte(page2))
			return
		}
		// page 1 links to page 2
		w.Write([]byte(`<html><body>
<table class="ui very basic center aligned table"><tbody>
<tr><td></td><td>1000</td><td>First</td><td>1/2</td><td></td></tr>
</tbody></table>
<a id="page_next" href="problemset.php?page=2">next</a>
</body></html>`))
	})
	c, _ := newTestClient(t, mux)

	pages, err := c.FetchProblemset(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("FetchProblemset error: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	if len(pages[2]) != 1 || pages[2][0].ProblemID != "1002" {
		t.Errorf("page 2 rows: %+v", pages[2])
	}

	pages, err = c.FetchProblemset(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("FetchProblemset error: %v", err)
	}
	if len(pages) != 1 {
		t.Errorf("maxPages=1 fetched %d pages", len(pages))
	}
}

const problemPage = `<html><body><div class="padding">
<div class="ui center aligned grid"><h1 class="ui header">1000: A+B Problem</h1></div>
<span class="ui label">时间限制：1 秒</span>
<span class="ui label">内存限制：128 MB</span>
<h4 class="ui top attached block header">Description</h4>
<div class="ui bottom attached segment"><p>Add two integers.</p></div>
<h4 class="ui top attached block header">Input</h4>
<div class="ui bottom attached segment"><p>Two integers a and b.</p></div>
<h4 class="ui top attached block header">Sample Input Copy</h4>
<div class="ui bottom attached segment"><pre>1 2</pre></div>
<h4 class="ui top attached block header">Sample Output Copy</h4>
<div class="ui bottom attached segment"><pre>3</pre></div>
<div id="show_tag_div"><a>math</a><a>beginner</a></div>
</div></body></html>`

func TestFetchProblem(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/problem.php", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id") != "1000" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(problemPage))
	})
	c, _ := newTestClient(t, mux)

	p, err := c.FetchProblem(context.Background(), "1000")
	if err != nil {
		t.Fatalf("FetchProblem error: %v", err)
	}
	if p.ProblemID != "1000" || p.Title != "A+B Problem" {
		t.Errorf("header: id=%q title=%q", p.ProblemID, p.Title)
	}
	if p.Metadata["时间限制"] != "1 秒" {
		t.Errorf("metadata: %v", p.Metadata)
	}
	if p.Description != "Add two integers." {
		t.Errorf("description = %q", p.Description)
	}
	if p.SampleInput != "1 2" {
		t.Errorf("sample input = %q", p.SampleInput)
	}
	if p.SampleOutput != "3" {
		t.Errorf("sample output = %q", p.SampleOutput)
	}
	if len(p.Tags) != 2 || p.Tags[0] != "math" {
		t.Errorf("tags = %v", p.Tags)
	}
	if p.IsPrivate {
		t.Error("public problem marked private")
	}
}

func TestFetchProblem_Private(t *testing.T) {
	private := `<html><body>
<div class="ui negative icon message">
  <div class="header">This problem belongs to a private contest</div>
  <a href="contest.php?cid=7">Weekly Round 7</a>
</div>
</body></html>`
	mux := http.NewServeMux()
	mux.HandleFunc("/problem.php", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(private))
	})
	c, srv := newTestClient(t, mux)

	p, err := c.FetchProblem(context.Background(), "2000")
	if err != nil {
		t.Fatalf("FetchProblem error: %v", err)
	}
	if !p.IsPrivate {
		t.Fatal("expected private problem")
	}
	if len(p.PrivateContests) != 1 {
		t.Fatalf("contests: %+v", p.PrivateContests)
	}
	if p.PrivateContests[0].Name != "Weekly Round 7" {
		t.Errorf("contest name = %q", p.PrivateContests[0].Name)
	}
	if p.PrivateContests[0].URL != srv.URL+"/contest.php?cid=7" {
		t.Errorf("contest url = %q", p.PrivateContests[0].URL)
	}
}

func TestNormalizeSample(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"1 2\r\n3 4\r\n", "1 2\n3 4"},
		{"\n\n1\n\n\n2\n\n", "1\n\n2"},
		{"a b", "a b"},
		{"", ""},
	}
	for _, c := range cases {
		if got := normalizeSample(c.in); got != c.want {
			t.Errorf("normalizeSample(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeParagraph(t *testing.T) {
	in := "  line one  \r\n\r\n\r\nline two\t\n\n"
	want := "  line one\n\nline two"
	if got := normalizeParagraph(in); got != want {
		t.Errorf("normalizeParagraph = %q, want %q", got, want)
	}
}
