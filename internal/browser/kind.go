package browser

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is a supported browser.
type Kind string

const (
	Chrome  Kind = "chrome"
	Firefox Kind = "firefox"
	Edge    Kind = "edge"
)

// AllKinds is the fan-out order for the "all" target.
var AllKinds = []Kind{Chrome, Firefox, Edge}

// ErrUnsupportedBrowser is a configuration error. It is never retried.
var ErrUnsupportedBrowser = errors.New("unsupported browser")

// ParseKind maps a browser name, in any case, to a Kind.
func ParseKind(name string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(name))); k {
	case Chrome, Firefox, Edge:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedBrowser, name)
	}
}

// ParseTargets expands a --browser value. "all" yields every Kind.
func ParseTargets(name string) ([]Kind, error) {
	if strings.EqualFold(strings.TrimSpace(name), "all") {
		return append([]Kind(nil), AllKinds...), nil
	}
	k, err := ParseKind(name)
	if err != nil {
		return nil, err
	}
	return []Kind{k}, nil
}

// LaunchError wraps a failure to start or reach a browser.
type LaunchError struct {
	Kind Kind
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch %s: %v", e.Kind, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}
