package browser

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"chrome", Chrome},
		{"Chrome", Chrome},
		{" FIREFOX ", Firefox},
		{"edge", Edge},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if err != nil {
			t.Errorf("ParseKind(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseKindUnsupported(t *testing.T) {
	for _, in := range []string{"safari", "", "all"} {
		if _, err := ParseKind(in); !errors.Is(err, ErrUnsupportedBrowser) {
			t.Errorf("ParseKind(%q) error = %v, want ErrUnsupportedBrowser", in, err)
		}
	}
}

func TestParseTargets(t *testing.T) {
	got, err := ParseTargets("ALL")
	if err != nil {
		t.Fatalf("ParseTargets(all) error: %v", err)
	}
	if !reflect.DeepEqual(got, []Kind{Chrome, Firefox, Edge}) {
		t.Errorf("ParseTargets(all) = %v", got)
	}

	// the returned slice must not alias AllKinds
	got[0] = Edge
	if AllKinds[0] != Chrome {
		t.Error("ParseTargets leaked AllKinds")
	}

	got, err = ParseTargets("firefox")
	if err != nil || !reflect.DeepEqual(got, []Kind{Firefox}) {
		t.Errorf("ParseTargets(firefox) = %v, %v", got, err)
	}

	if _, err := ParseTargets("opera"); !errors.Is(err, ErrUnsupportedBrowser) {
		t.Errorf("ParseTargets(opera) error = %v", err)
	}
}

func TestLaunchErrorUnwraps(t *testing.T) {
	cause := errors.New("executable doesn't exist")
	err := error(&LaunchError{Kind: Edge, Err: cause})
	if !errors.Is(err, cause) {
		t.Error("Expected LaunchError to unwrap to its cause")
	}
	if err.Error() != "launch edge: executable doesn't exist" {
		t.Errorf("Error() = %q", err.Error())
	}
}
