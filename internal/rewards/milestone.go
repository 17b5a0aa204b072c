package rewards

import "github.com/readingrally/readingrally/internal/latch"

// MilestoneType selects the statistic a milestone tracks.
type MilestoneType string

const (
	MilestonePoints MilestoneType = "points"
	MilestoneBooks  MilestoneType = "books"
	MilestoneStreak MilestoneType = "streak"
	MilestoneWPM    MilestoneType = "wpm"
)

// Reward is paid out once when a milestone completes. A zero Badge means
// points only.
type Reward struct {
	Points int
	Badge  BadgeDefinition
}

// MilestoneDefinition is a static milestone catalog entry.
type MilestoneDefinition struct {
	ID          string
	Name        string
	Description string
	Requirement float64
	Type        MilestoneType
	Reward      Reward
}

func milestoneCatalog() []MilestoneDefinition {
	return []MilestoneDefinition{
		{
			ID:          "first-book",
			Name:        "First Book",
			Description: "Complete your first book",
			Requirement: 1,
			Type:        MilestoneBooks,
			Reward:      Reward{Points: 100},
		},
		{
			ID:          "reading-streak",
			Name:        "Reading Streak",
			Description: "Read for 7 days in a row",
			Requirement: 7,
			Type:        MilestoneStreak,
			Reward:      Reward{Points: 500, Badge: mustBadge(BadgePerfectStreak)},
		},
		{
			ID:          "speed-milestone",
			Name:        "Speed Reader",
			Description: "Read 150 words per minute",
			Requirement: 150,
			Type:        MilestoneWPM,
			Reward:      Reward{Points: 500, Badge: mustBadge(BadgeSpeedReader)},
		},
		{
			ID:          "bookworm",
			Name:        "Bookworm",
			Description: "Complete 10 books",
			Requirement: 10,
			Type:        MilestoneBooks,
			Reward:      Reward{Points: 1000, Badge: mustBadge(BadgeBookworm)},
		},
		{
			ID:          "points-master",
			Name:        "Points Master",
			Description: "Earn 1000 points",
			Requirement: 1000,
			Type:        MilestonePoints,
			Reward:      Reward{Points: 1500, Badge: mustBadge(BadgeMasterReader)},
		},
	}
}

// MilestoneCatalog returns the milestone definitions in display order.
func MilestoneCatalog() []MilestoneDefinition {
	return milestoneCatalog()
}

// Milestone is a read-only view of a milestone's state.
type Milestone struct {
	MilestoneDefinition
	Progress  float64
	Completed bool
}

// Percent returns progress toward the requirement in [0, 1].
func (m Milestone) Percent() float64 {
	if m.Requirement <= 0 || m.Completed {
		return 1
	}
	return m.Progress / m.Requirement
}

type milestoneState struct {
	def   MilestoneDefinition
	latch latch.State
}

func (s milestoneState) view() Milestone {
	return Milestone{
		MilestoneDefinition: s.def,
		Progress:            s.latch.Progress(),
		Completed:           s.latch.Achieved(),
	}
}
