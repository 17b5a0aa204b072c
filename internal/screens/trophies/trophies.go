// Package trophies shows points, badges, milestones and the reward log.
package trophies

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/readingrally/readingrally/internal/profile"
	"github.com/readingrally/readingrally/internal/rewards"
	"github.com/readingrally/readingrally/internal/screen"
	"github.com/readingrally/readingrally/internal/store"
	"github.com/readingrally/readingrally/internal/ui/components"
	"github.com/readingrally/readingrally/internal/ui/layout"
	"github.com/readingrally/readingrally/internal/ui/theme"
)

// logLimit caps how many reward events are loaded.
const logLimit = 50

type tab int

const (
	tabBadges tab = iota
	tabMilestones
	tabLog
	tabCount
)

func (t tab) label() string {
	switch t {
	case tabBadges:
		return "Badges"
	case tabMilestones:
		return "Milestones"
	default:
		return "Points Log"
	}
}

type logLoadedMsg struct {
	Records []store.RewardEventRecord
	Err     error
}

// TrophiesScreen displays the reader's rewards.
type TrophiesScreen struct {
	viewer       profile.Viewer
	eventRepo    store.EventRepo
	points       int
	earned       map[string]rewards.Badge
	milestones   []rewards.Milestone
	log          []store.RewardEventRecord
	logLoaded    bool
	logErr       string
	selectedTab  tab
	scrollOffset int
}

var _ screen.Screen = (*TrophiesScreen)(nil)
var _ screen.KeyHintProvider = (*TrophiesScreen)(nil)
var _ screen.Refresher = (*TrophiesScreen)(nil)

// New creates a TrophiesScreen. eventRepo may be nil, which leaves the
// points log empty.
func New(viewer profile.Viewer, eventRepo store.EventRepo) *TrophiesScreen {
	s := &TrophiesScreen{viewer: viewer, eventRepo: eventRepo}
	s.reload()
	return s
}

func (s *TrophiesScreen) reload() {
	s.earned = make(map[string]rewards.Badge)
	s.points, s.milestones = 0, nil
	if s.viewer == nil {
		return
	}
	s.viewer.View(func(p *profile.Profile) {
		s.points = p.Rewards.Points()
		for _, b := range p.Rewards.Badges() {
			s.earned[b.ID] = b
		}
		s.milestones = p.Rewards.Milestones()
	})
}

func (s *TrophiesScreen) loadLog() tea.Cmd {
	if s.eventRepo == nil {
		return func() tea.Msg { return logLoadedMsg{} }
	}
	repo := s.eventRepo
	return func() tea.Msg {
		records, err := repo.QueryRewardEvents(context.Background(), store.QueryOpts{Limit: logLimit})
		return logLoadedMsg{Records: records, Err: err}
	}
}

func (s *TrophiesScreen) Init() tea.Cmd {
	return s.loadLog()
}

// Refresh reloads the profile and the reward log.
func (s *TrophiesScreen) Refresh() tea.Cmd {
	s.reload()
	return s.loadLog()
}

func (s *TrophiesScreen) Title() string {
	return "Trophy Room"
}

func (s *TrophiesScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Switch view"},
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *TrophiesScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case logLoadedMsg:
		s.logLoaded = true
		s.logErr = ""
		if msg.Err != nil {
			s.logErr = msg.Err.Error()
		} else {
			s.log = msg.Records
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "right", "l":
			s.selectedTab = (s.selectedTab + 1) % tabCount
			s.scrollOffset = 0
		case "shift+tab", "left", "h":
			s.selectedTab = (s.selectedTab - 1 + tabCount) % tabCount
			s.scrollOffset = 0
		case "up", "k":
			if s.scrollOffset > 0 {
				s.scrollOffset--
			}
		case "down", "j":
			if s.scrollOffset < len(s.tabLines(60))-1 {
				s.scrollOffset++
			}
		}
	}
	return s, nil
}

func (s *TrophiesScreen) View(width, height int) string {
	cw := min(max(width-8, 30), 64)
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.ArcadeYellow).Bold(true).
		Render(fmt.Sprintf("\n★ %d points", s.points)))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
		Render(fmt.Sprintf("%d of %d badges", len(s.earned), len(rewards.BadgeCatalog()))))
	b.WriteString("\n\n")

	var tabs []string
	for t := tab(0); t < tabCount; t++ {
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		if t == s.selectedTab {
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		}
		tabs = append(tabs, style.Render(t.label()))
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(tabs, "     ")))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", cw))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	lines := s.tabLines(cw)
	maxVisible := max(height-9, 3)
	start := min(s.scrollOffset, max(len(lines)-1, 0))
	end := min(start+maxVisible, len(lines))
	for _, l := range lines[start:end] {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Width(cw).Render(l)))
		b.WriteString("\n")
	}
	if end < len(lines) {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render(fmt.Sprintf("... %d more", len(lines)-end)))
	}
	return b.String()
}

func (s *TrophiesScreen) tabLines(cw int) []string {
	switch s.selectedTab {
	case tabBadges:
		return s.badgeLines()
	case tabMilestones:
		return s.milestoneLines(cw)
	default:
		return s.logLines()
	}
}

// badgeLines lists the catalog, rarest first. Unearned badges are dimmed.
func (s *TrophiesScreen) badgeLines() []string {
	catalog := rewards.BadgeCatalog()
	var lines []string
	for _, r := range rarestFirst() {
		for _, def := range catalog {
			if def.Rarity != r {
				continue
			}
			if b, ok := s.earned[def.ID]; ok {
				style := lipgloss.NewStyle().Foreground(theme.RarityColor(string(r)))
				lines = append(lines,
					style.Bold(true).Render(fmt.Sprintf("%s %-16s %-10s", def.Icon, def.Name, r.DisplayName()))+
						theme.Hint.Render(b.DateEarned.Format("Jan 02, 2006")),
					theme.Hint.Render("   "+def.Description),
				)
				continue
			}
			lines = append(lines,
				lipgloss.NewStyle().Foreground(theme.TextDim).
					Render(fmt.Sprintf("? %-16s %-10s locked", def.Name, r.DisplayName())),
				theme.Hint.Render(fmt.Sprintf("   %s (+%d)", def.Description, def.Points)),
			)
		}
	}
	return lines
}

func rarestFirst() []rewards.Rarity {
	all := rewards.AllRarities()
	out := make([]rewards.Rarity, len(all))
	for i, r := range all {
		out[len(all)-1-i] = r
	}
	return out
}

func (s *TrophiesScreen) milestoneLines(cw int) []string {
	if len(s.milestones) == 0 {
		return []string{emptyLine("No milestones yet")}
	}
	var lines []string
	for _, m := range s.milestones {
		reward := fmt.Sprintf("+%d", m.Reward.Points)
		if m.Reward.Badge.ID != "" {
			reward += " · " + m.Reward.Badge.Name
		}
		if m.Completed {
			lines = append(lines, theme.Correct.Render("✓ "+m.Name)+theme.Hint.Render("  "+reward))
			continue
		}
		bar := components.NewProgressBar("", m.Percent(), true, cw-24)
		lines = append(lines,
			lipgloss.NewStyle().Foreground(theme.Text).Render(fmt.Sprintf("  %-20s", m.Name))+" "+bar.View(),
			theme.Hint.Render(fmt.Sprintf("    %s  (%s)", m.Description, reward)),
		)
	}
	return lines
}

func (s *TrophiesScreen) logLines() []string {
	switch {
	case s.logErr != "":
		return []string{lipgloss.NewStyle().Foreground(theme.Error).Render("Error: " + s.logErr)}
	case !s.logLoaded:
		return []string{emptyLine("Loading rewards...")}
	case len(s.log) == 0:
		return []string{emptyLine("No rewards yet. Start reading!")}
	}
	var lines []string
	for _, rec := range s.log {
		date := rec.Timestamp.Format("Jan 02")
		var line string
		switch rewards.EventKind(rec.Kind) {
		case rewards.EventBadge:
			name := rec.BadgeID
			color := theme.Text
			if def, ok := rewards.LookupBadge(rec.BadgeID); ok {
				name = def.Icon + " " + def.Name
				color = theme.RarityColor(string(def.Rarity))
			}
			line = lipgloss.NewStyle().Foreground(color).Render(fmt.Sprintf("%s  badge  %s", date, name))
		case rewards.EventMilestone:
			line = theme.Correct.Render(fmt.Sprintf("%s  milestone  %s", date, rec.MilestoneID))
		default:
			line = lipgloss.NewStyle().Foreground(theme.ArcadeYellow).
				Render(fmt.Sprintf("%s  %+5d", date, rec.Points)) +
				theme.Hint.Render(fmt.Sprintf("  %s  (total %d)", rec.Reason, rec.Total))
		}
		lines = append(lines, line)
	}
	return lines
}

func emptyLine(text string) string {
	return lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render(text)
}
