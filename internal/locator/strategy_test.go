package locator

import (
	"errors"
	"testing"
)

func TestResolveStrategy(t *testing.T) {
	tests := []struct {
		name string
		want Strategy
	}{
		{"id", ID},
		{"ID", ID},
		{"XPath", XPath},
		{"css", CSS},
		{"ClassName", ClassName},
		{"LINKTEXT", LinkText},
		{"name", Name},
		{"", XPath},
	}
	for _, tt := range tests {
		got, err := ResolveStrategy(tt.name)
		if err != nil {
			t.Errorf("ResolveStrategy(%q) unexpected error: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ResolveStrategy(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestResolveStrategyUnsupported(t *testing.T) {
	for _, name := range []string{"partial", "tag", "sizzle"} {
		_, err := ResolveStrategy(name)
		if !errors.Is(err, ErrUnsupportedStrategy) {
			t.Errorf("ResolveStrategy(%q) error = %v, want ErrUnsupportedStrategy", name, err)
		}
	}
}

func TestSelector(t *testing.T) {
	tests := []struct {
		strategy Strategy
		locator  string
		want     string
	}{
		{XPath, "//button[@id='login']", "xpath=//button[@id='login']"},
		{CSS, "form > input", "css=form > input"},
		{ID, "login", `[id="login"]`},
		{ID, `we"ird`, `[id="we\"ird"]`},
		{ClassName, "btn primary", ".btn.primary"},
		{LinkText, "Sign in", `a:text-is("Sign in")`},
		{Name, "email", `[name="email"]`},
	}
	for _, tt := range tests {
		if got := tt.strategy.Selector(tt.locator); got != tt.want {
			t.Errorf("%s.Selector(%q) = %q, want %q", tt.strategy, tt.locator, got, tt.want)
		}
	}
}
