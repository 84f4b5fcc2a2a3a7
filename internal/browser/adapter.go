package browser

import (
	"github.com/playwright-community/playwright-go"

	"loginsuite/internal/locator"
)

// pageAdapter exposes a playwright page as a locator.Page.
type pageAdapter struct {
	page playwright.Page
}

func (a pageAdapter) QueryAll(selector string) ([]locator.Element, error) {
	matches, err := a.page.Locator(selector).All()
	if err != nil {
		return nil, err
	}
	out := make([]locator.Element, 0, len(matches))
	for _, m := range matches {
		out = append(out, elementAdapter{loc: m})
	}
	return out, nil
}

// elementAdapter exposes a single-match playwright locator as a
// locator.Element.
type elementAdapter struct {
	loc playwright.Locator
}

func (e elementAdapter) Click() error {
	return e.loc.Click()
}

func (e elementAdapter) Fill(text string) error {
	return e.loc.Fill(text)
}

func (e elementAdapter) ScrollIntoView() error {
	if err := e.loc.ScrollIntoViewIfNeeded(); err != nil {
		return err
	}
	return e.loc.Hover()
}

func (e elementAdapter) IsVisible() (bool, error) {
	return e.loc.IsVisible()
}

func (e elementAdapter) SetInputFiles(path string) error {
	return e.loc.SetInputFiles(path)
}
