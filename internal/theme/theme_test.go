package theme

import (
	"strings"
	"testing"
)

func TestForNameDefaultIsPlain(t *testing.T) {
	p := ForName("default")
	if got := p.Accentize("hello"); got != "hello" {
		t.Errorf("Accentize: got %q, want unstyled text", got)
	}
	if got := p.Mutedize("hello"); got != "hello" {
		t.Errorf("Mutedize: got %q, want unstyled text", got)
	}
}

func TestForNameUnknownFallsBackToDefault(t *testing.T) {
	p := ForName("oceanic")
	if p.Name() != "default" {
		t.Errorf("Name: got %q, want default", p.Name())
	}
	if got := p.Accentize("hello"); got != "hello" {
		t.Errorf("unknown theme should not style text, got %q", got)
	}
}

func TestForNameKnownThemesKeepText(t *testing.T) {
	for _, name := range []string{"noir", "solarized"} {
		p := ForName(name)
		if p.Name() != name {
			t.Errorf("Name: got %q, want %q", p.Name(), name)
		}
		// Styling may or may not emit escape codes depending on the
		// terminal profile, but the text itself must survive.
		if got := p.Accentize("hello"); !strings.Contains(got, "hello") {
			t.Errorf("Accentize(%s): text lost, got %q", name, got)
		}
	}
}

func TestNames(t *testing.T) {
	names := Names()
	if len(names) != 3 || names[0] != "default" {
		t.Errorf("Names: got %v", names)
	}
}
