// Package locator resolves page elements from a (locator, strategy) pair.
//
// A Locator is bound to one Page. The browser package supplies the real Page
// backed by playwright; tests use mocks or fakes.
package locator

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// PollInterval is how often WaitVisible re-checks the page.
const PollInterval = 500 * time.Millisecond

// Element is a resolved page element.
type Element interface {
	Click() error
	Fill(text string) error
	// ScrollIntoView moves the pointer over the element, scrolling it into
	// the viewport when needed.
	ScrollIntoView() error
	IsVisible() (bool, error)
	SetInputFiles(path string) error
}

// Page is the part of a browser page the locator needs.
type Page interface {
	// QueryAll returns every element matching an engine selector, in
	// document order. No match is an empty slice and a nil error.
	QueryAll(selector string) ([]Element, error)
}

// Locator finds elements on a Page and logs what it finds.
type Locator struct {
	page Page
	log  *zap.Logger
	poll time.Duration
}

// New binds a Locator to page. A nil logger disables logging.
func New(page Page, log *zap.Logger) *Locator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Locator{page: page, log: log.Named("locator"), poll: PollInterval}
}

// WithPollInterval returns a copy that polls at d.
func (l *Locator) WithPollInterval(d time.Duration) *Locator {
	cp := *l
	if d > 0 {
		cp.poll = d
	}
	return &cp
}

// Page returns the page this locator is bound to.
func (l *Locator) Page() Page {
	return l.page
}

func (l *Locator) resolve(locator, strategy string) (Strategy, error) {
	s, err := ResolveStrategy(strategy)
	if err != nil {
		l.log.Error("locator strategy not supported",
			zap.String("strategy", strategy),
			zap.String("locator", locator))
		return "", err
	}
	return s, nil
}

func (l *Locator) query(locator, strategy string) ([]Element, Strategy, error) {
	s, err := l.resolve(locator, strategy)
	if err != nil {
		return nil, "", err
	}
	elems, err := l.page.QueryAll(s.Selector(locator))
	if err != nil {
		return nil, s, fmt.Errorf("query %s %q: %w", s, locator, err)
	}
	return elems, s, nil
}

// FindOne returns the first element matching locator. An empty strategy
// means xpath. No match returns ErrElementNotFound.
func (l *Locator) FindOne(locator, strategy string) (Element, error) {
	elems, s, err := l.query(locator, strategy)
	if err != nil {
		if errors.Is(err, ErrUnsupportedStrategy) {
			return nil, err
		}
		l.log.Warn("element lookup failed", zap.String("locator", locator), zap.Error(err))
		return nil, fmt.Errorf("%w: %s", ErrElementNotFound, err)
	}
	if len(elems) == 0 {
		l.log.Warn("element not found",
			zap.String("locator", locator),
			zap.String("strategy", string(s)))
		return nil, fmt.Errorf("%w: %s %q", ErrElementNotFound, s, locator)
	}
	l.log.Info("element found",
		zap.String("locator", locator),
		zap.String("strategy", string(s)))
	return elems[0], nil
}

// Exists reports whether at least one element matches. It never fails.
func (l *Locator) Exists(locator, strategy string) bool {
	el, err := l.FindOne(locator, strategy)
	return err == nil && el != nil
}

// ExistsAny reports whether the multi-match lookup returns a non-empty
// list. Zero matches is false, not an error.
func (l *Locator) ExistsAny(locator, strategy string) bool {
	elems, s, err := l.query(locator, strategy)
	if err != nil {
		if !errors.Is(err, ErrUnsupportedStrategy) {
			l.log.Warn("element lookup failed", zap.String("locator", locator), zap.Error(err))
		}
		return false
	}
	if len(elems) == 0 {
		l.log.Info("no elements found",
			zap.String("locator", locator),
			zap.String("strategy", string(s)))
		return false
	}
	l.log.Info("elements found",
		zap.String("locator", locator),
		zap.String("strategy", string(s)),
		zap.Int("count", len(elems)))
	return true
}

// WaitVisible polls until an element matching locator is visible or timeout
// elapses. The page is checked at least once, and a final time at the
// deadline. Expiry returns ErrTimedOut.
func (l *Locator) WaitVisible(locator, strategy string, timeout time.Duration) (Element, error) {
	s, err := l.resolve(locator, strategy)
	if err != nil {
		return nil, err
	}
	selector := s.Selector(locator)
	deadline := time.Now().Add(timeout)
	for {
		if el := l.firstVisible(selector); el != nil {
			l.log.Info("element visible",
				zap.String("locator", locator),
				zap.String("strategy", string(s)))
			return el, nil
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		time.Sleep(min(l.poll, remaining))
	}
	l.log.Warn("element did not become visible",
		zap.String("locator", locator),
		zap.String("strategy", string(s)),
		zap.Duration("timeout", timeout))
	return nil, fmt.Errorf("%w: %s %q after %s", ErrTimedOut, s, locator, timeout)
}

func (l *Locator) firstVisible(selector string) Element {
	elems, err := l.page.QueryAll(selector)
	if err != nil {
		l.log.Debug("query failed while waiting", zap.String("selector", selector), zap.Error(err))
		return nil
	}
	for _, el := range elems {
		if ok, err := el.IsVisible(); err == nil && ok {
			return el
		}
	}
	return nil
}
