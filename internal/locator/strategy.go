package locator

import (
	"errors"
	"fmt"
	"strings"
)

// Strategy names how a locator string is interpreted.
type Strategy string

const (
	ID        Strategy = "id"
	XPath     Strategy = "xpath"
	CSS       Strategy = "css"
	ClassName Strategy = "classname"
	LinkText  Strategy = "linktext"
	Name      Strategy = "name"
)

// DefaultStrategy applies when a caller passes an empty strategy name.
const DefaultStrategy = XPath

var (
	// ErrUnsupportedStrategy is a configuration error: the strategy name is
	// not one of the supported kinds.
	ErrUnsupportedStrategy = errors.New("unsupported locator strategy")
	// ErrElementNotFound means no element matched. It is not fatal.
	ErrElementNotFound = errors.New("element not found")
	// ErrTimedOut means a bounded wait expired.
	ErrTimedOut = errors.New("timed out waiting for element")
)

var strategies = map[string]Strategy{
	"id":        ID,
	"xpath":     XPath,
	"css":       CSS,
	"classname": ClassName,
	"linktext":  LinkText,
	"name":      Name,
}

// ResolveStrategy maps a strategy name, in any case, to a Strategy. An empty
// name resolves to DefaultStrategy.
func ResolveStrategy(name string) (Strategy, error) {
	if name == "" {
		return DefaultStrategy, nil
	}
	s, ok := strategies[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedStrategy, name)
	}
	return s, nil
}

// Selector renders locator as an engine selector for this strategy.
func (s Strategy) Selector(locator string) string {
	switch s {
	case ID:
		return `[id="` + quote(locator) + `"]`
	case CSS:
		return "css=" + locator
	case ClassName:
		return "." + strings.Join(strings.Fields(locator), ".")
	case LinkText:
		return `a:text-is("` + quote(locator) + `")`
	case Name:
		return `[name="` + quote(locator) + `"]`
	default:
		return "xpath=" + locator
	}
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
