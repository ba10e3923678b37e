// Package theme maps theme names to terminal color palettes.
package theme

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette styles accented and muted text for one theme. The default theme
// leaves text unstyled so output stays clean on dumb terminals and in pipes.
type Palette struct {
	name   string
	accent lipgloss.Style
	muted  lipgloss.Style
	plain  bool
}

// Name returns the canonical theme name this palette was built for.
func (p Palette) Name() string {
	return p.name
}

// Accentize renders text in the theme's accent color.
func (p Palette) Accentize(text string) string {
	if p.plain {
		return text
	}
	return p.accent.Render(text)
}

// Mutedize renders text in the theme's muted color.
func (p Palette) Mutedize(text string) string {
	if p.plain {
		return text
	}
	return p.muted.Render(text)
}

// ForName returns the palette for a canonical theme name. Unknown names get
// the plain default palette rather than an error; a misspelled theme should
// never block a task operation.
func ForName(name string) Palette {
	switch name {
	case "noir":
		return Palette{
			name:   "noir",
			accent: lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
			muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		}
	case "solarized":
		return Palette{
			name:   "solarized",
			accent: lipgloss.NewStyle().Foreground(lipgloss.Color("108")),
			muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		}
	default:
		return Palette{name: "default", plain: true}
	}
}

// Names lists the known theme names.
func Names() []string {
	return []string{"default", "noir", "solarized"}
}
