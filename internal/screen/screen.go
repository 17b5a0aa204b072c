package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/readingrally/readingrally/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Refresher is implemented by screens that show profile state and need to
// reload it when they become active again.
type Refresher interface {
	Refresh() tea.Cmd
}

// Busy is implemented by screens that must not be left with Esc while
// work is in flight, such as a recording or an analysis.
type Busy interface {
	Busy() bool
}

// Closer is implemented by screens holding resources, such as an open
// microphone, that must be released when the program quits.
type Closer interface {
	Close()
}
