package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/readingrally/readingrally/internal/profile"
	"github.com/readingrally/readingrally/internal/router"
	"github.com/readingrally/readingrally/internal/screen"
	"github.com/readingrally/readingrally/internal/screens/home"
	"github.com/readingrally/readingrally/internal/screens/welcome"
	"github.com/readingrally/readingrally/internal/ui/layout"
)

// Options configures the TUI.
type Options struct {
	Home home.Options
	// SkipSplash starts on the home screen.
	SkipSplash bool
	Log        *zap.Logger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	profile profile.Viewer
	log     *zap.Logger
	width   int
	height  int
}

// newAppModel creates an AppModel starting on the splash or home screen.
func newAppModel(opts Options) AppModel {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	homeFactory := func() screen.Screen { return home.New(opts.Home) }

	var first screen.Screen
	if opts.SkipSplash {
		first = homeFactory()
	} else {
		first = welcome.New(homeFactory)
	}
	return AppModel{
		router:  router.New(first),
		profile: opts.Home.Profile,
		log:     opts.Log,
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.closeAll()
			return m, tea.Quit
		case "esc":
			// A busy screen decides what Esc means, e.g. stopping a recording.
			if b, ok := m.router.Active().(screen.Busy); ok && b.Busy() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// closeAll releases screen resources before quitting.
func (m AppModel) closeAll() {
	if c, ok := m.router.Active().(screen.Closer); ok {
		m.log.Info("closing active screen on quit")
		c.Close()
	}
}

func (m AppModel) headerStats() layout.HeaderStats {
	st := layout.HeaderStats{Level: 1}
	if m.profile == nil {
		return st
	}
	m.profile.View(func(p *profile.Profile) {
		st.Points = p.Rewards.Points()
		st.Level = p.Progress.CurrentLevel()
		st.Streak = p.Progress.ActiveStreak()
	})
	return st
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	var hints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		hints = append(hints, p.KeyHints()...)
	} else if m.router.Depth() > 1 {
		hints = append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if content := m.render(); content != "" {
		v.SetContent(content)
	}
	return v
}

// render lays out the active screen between the header and the footer.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	if active == nil {
		return ""
	}

	// The splash owns the whole terminal.
	if _, ok := active.(*welcome.WelcomeScreen); ok {
		return active.View(m.width, m.height)
	}

	header := layout.RenderHeader(active.Title(), m.headerStats(), m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
