// Package report collects per-test results and renders the HTML run report.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"

	"loginsuite/internal/templates"
)

// Outcome of one test.
type Outcome string

const (
	Passed  Outcome = "passed"
	Failed  Outcome = "failed"
	Skipped Outcome = "skipped"
)

// Result is one row of the report.
type Result struct {
	Name     string
	Browser  string
	Outcome  Outcome
	Started  time.Time
	Duration time.Duration
	Message  string
	// Log is the ledger capture for the test.
	Log         string
	Screenshots []string
}

// Recorder accumulates results. It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	results []Result
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// Add appends r.
func (r *Recorder) Add(res Result) {
	r.mu.Lock()
	r.results = append(r.results, res)
	r.mu.Unlock()
}

// Results returns a copy in the order they were added.
func (r *Recorder) Results() []Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Result(nil), r.results...)
}

// Failed reports whether any recorded result failed.
func (r *Recorder) Failed() bool {
	for _, res := range r.Results() {
		if res.Outcome == Failed {
			return true
		}
	}
	return false
}

// Report is a finished run.
type Report struct {
	Suite   string
	App     string
	Started time.Time
	Results []Result
}

// Title is "Testing <app> - on <Weekday - MMYYYY> @ HH:MM:SS".
func (r Report) Title() string {
	return fmt.Sprintf("Testing %s - on %s @ %s",
		r.App, r.Started.Format("Monday - 012006"), r.Started.Format("15:04:05"))
}

// FileName is "<suite>_<YYYYMMDD_HHMMSS>_report.html".
func (r Report) FileName() string {
	return fmt.Sprintf("%s_%s_report.html", r.Suite, r.Started.Format("20060102_150405"))
}

// Counts tallies results by outcome.
func (r Report) Counts() map[Outcome]int {
	counts := map[Outcome]int{}
	for _, res := range r.Results {
		counts[res.Outcome]++
	}
	return counts
}

// Summary is the markdown shown above the results table.
func (r Report) Summary() string {
	counts := r.Counts()
	var b strings.Builder
	fmt.Fprintf(&b, "**%d** tests: **%d** passed, **%d** failed, **%d** skipped\n\n",
		len(r.Results), counts[Passed], counts[Failed], counts[Skipped])

	browsers := map[string]bool{}
	for _, res := range r.Results {
		if res.Browser != "" {
			browsers[res.Browser] = true
		}
	}
	if len(browsers) > 0 {
		names := make([]string, 0, len(browsers))
		for name := range browsers {
			names = append(names, name)
		}
		sort.Strings(names)
		b.WriteString("Browsers:\n\n")
		for _, name := range names {
			fmt.Fprintf(&b, "- `%s`\n", name)
		}
	}
	return b.String()
}

// RenderMarkdown converts markdown to sanitized HTML.
func RenderMarkdown(text string) template.HTML {
	html := blackfriday.Run([]byte(text),
		blackfriday.WithExtensions(blackfriday.CommonExtensions|blackfriday.Autolink))
	return template.HTML(bluemonday.UGCPolicy().SanitizeBytes(html))
}

var (
	tmplOnce sync.Once
	tmpl     *template.Template
	tmplErr  error
)

func loadTemplate() (*template.Template, error) {
	tmplOnce.Do(func() {
		tmpl, tmplErr = templates.Parse("report.html")
	})
	return tmpl, tmplErr
}

type pageData struct {
	Title       string
	SummaryHTML template.HTML
	Results     []Result
}

// Render returns the report HTML.
func (r Report) Render() ([]byte, error) {
	t, err := loadTemplate()
	if err != nil {
		return nil, fmt.Errorf("failed to load report template: %w", err)
	}
	data := pageData{
		Title:       r.Title(),
		SummaryHTML: RenderMarkdown(r.Summary()),
		Results:     r.Results,
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "report", data); err != nil {
		return nil, fmt.Errorf("failed to execute report template: %w", err)
	}
	return buf.Bytes(), nil
}

// Write renders the report into dir and returns the file path.
func (r Report) Write(dir string) (string, error) {
	html, err := r.Render()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(dir, r.FileName())
	if err := os.WriteFile(path, html, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
