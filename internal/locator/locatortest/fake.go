// Package locatortest provides an in-memory Page for tests that need page
// state to change as elements are clicked.
package locatortest

import (
	"sync"

	"loginsuite/internal/locator"
)

// Element is a scriptable locator.Element.
type Element struct {
	mu sync.Mutex

	Visible  bool
	ClickErr error
	FillErr  error
	// OnClick runs after a successful click, outside the element lock.
	OnClick func()

	clicks   int
	scrolled int
	filled   []string
	files    []string
}

// NewElement returns a visible element.
func NewElement() *Element {
	return &Element{Visible: true}
}

func (e *Element) Click() error {
	e.mu.Lock()
	if e.ClickErr != nil {
		e.mu.Unlock()
		return e.ClickErr
	}
	e.clicks++
	hook := e.OnClick
	e.mu.Unlock()
	if hook != nil {
		hook()
	}
	return nil
}

func (e *Element) Fill(text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.FillErr != nil {
		return e.FillErr
	}
	e.filled = append(e.filled, text)
	return nil
}

func (e *Element) ScrollIntoView() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scrolled++
	return nil
}

func (e *Element) IsVisible() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Visible, nil
}

func (e *Element) SetInputFiles(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.files = append(e.files, path)
	return nil
}

// SetVisible toggles visibility.
func (e *Element) SetVisible(v bool) {
	e.mu.Lock()
	e.Visible = v
	e.mu.Unlock()
}

// Clicks returns the number of successful clicks.
func (e *Element) Clicks() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clicks
}

// Scrolled returns how many times the element was scrolled into view.
func (e *Element) Scrolled() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scrolled
}

// Filled returns every text typed into the element.
func (e *Element) Filled() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.filled...)
}

// Files returns every path handed to SetInputFiles.
func (e *Element) Files() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.files...)
}

// Page maps engine selectors to elements.
type Page struct {
	mu      sync.Mutex
	elems   map[string][]*Element
	queries []string
	// Err, when set, fails every query.
	Err error
}

// NewPage returns an empty page.
func NewPage() *Page {
	return &Page{elems: make(map[string][]*Element)}
}

// Add registers el under selector and returns it.
func (p *Page) Add(selector string, el *Element) *Element {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.elems[selector] = append(p.elems[selector], el)
	return el
}

// Remove drops every element registered under selector.
func (p *Page) Remove(selector string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.elems, selector)
}

// Queries returns the selectors queried so far.
func (p *Page) Queries() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.queries...)
}

func (p *Page) QueryAll(selector string) ([]locator.Element, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queries = append(p.queries, selector)
	if p.Err != nil {
		return nil, p.Err
	}
	out := make([]locator.Element, 0, len(p.elems[selector]))
	for _, el := range p.elems[selector] {
		out = append(out, el)
	}
	return out, nil
}

var _ locator.Page = (*Page)(nil)
var _ locator.Element = (*Element)(nil)
