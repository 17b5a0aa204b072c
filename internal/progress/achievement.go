package progress

import (
	"time"

	"github.com/readingrally/readingrally/internal/latch"
)

// Category selects the statistic an achievement is measured against.
type Category string

const (
	CategorySpeed      Category = "speed"
	CategoryAccuracy   Category = "accuracy"
	CategoryCompletion Category = "completion"
	CategoryStreak     Category = "streak"
)

// DisplayName returns a human-readable label for the category.
func (c Category) DisplayName() string {
	switch c {
	case CategorySpeed:
		return "Speed"
	case CategoryAccuracy:
		return "Accuracy"
	case CategoryCompletion:
		return "Books"
	case CategoryStreak:
		return "Streak"
	default:
		return string(c)
	}
}

// AchievementDefinition is a static catalog entry.
type AchievementDefinition struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Category    Category
	Threshold   float64
}

var achievementCatalog = []AchievementDefinition{
	{
		ID:          "speed-demon",
		Name:        "Speed Demon",
		Description: "Read at 120 words per minute",
		Icon:        "🚀",
		Category:    CategorySpeed,
		Threshold:   120,
	},
	{
		ID:          "accuracy-master",
		Name:        "Accuracy Master",
		Description: "Achieve 98% reading accuracy",
		Icon:        "🎯",
		Category:    CategoryAccuracy,
		Threshold:   98,
	},
	{
		ID:          "bookworm",
		Name:        "Bookworm",
		Description: "Complete 5 books",
		Icon:        "📚",
		Category:    CategoryCompletion,
		Threshold:   5,
	},
	{
		ID:          "consistent-reader",
		Name:        "Consistent Reader",
		Description: "Read for 7 days in a row",
		Icon:        "📅",
		Category:    CategoryStreak,
		Threshold:   7,
	},
}

// AchievementCatalog returns the achievement definitions in display order.
func AchievementCatalog() []AchievementDefinition {
	out := make([]AchievementDefinition, len(achievementCatalog))
	copy(out, achievementCatalog)
	return out
}

// Achievement is a read-only view of an achievement's state.
type Achievement struct {
	AchievementDefinition
	Progress     float64
	Achieved     bool
	DateAchieved *time.Time
}

// Percent returns progress toward the threshold in [0, 1].
func (a Achievement) Percent() float64 {
	if a.Threshold <= 0 || a.Achieved {
		return 1
	}
	return a.Progress / a.Threshold
}

type achievementState struct {
	def   AchievementDefinition
	latch latch.State
}

func (s achievementState) view() Achievement {
	a := Achievement{
		AchievementDefinition: s.def,
		Progress:              s.latch.Progress(),
		Achieved:              s.latch.Achieved(),
	}
	if at, ok := s.latch.AchievedAt(); ok {
		a.DateAchieved = &at
	}
	return a
}

// stats are the cumulative statistics achievements are measured against.
type stats struct {
	maxWPM      float64
	maxAccuracy float64
	books       int
	streak      int
}

func (s stats) value(c Category) float64 {
	switch c {
	case CategorySpeed:
		return s.maxWPM
	case CategoryAccuracy:
		return s.maxAccuracy
	case CategoryCompletion:
		return float64(s.books)
	case CategoryStreak:
		return float64(s.streak)
	default:
		return 0
	}
}
