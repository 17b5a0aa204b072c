package rewards

import "time"

// BadgeDefinition describes a collectible badge.
type BadgeDefinition struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Rarity      Rarity `json:"rarity"`
	Points      int    `json:"points"`
}

// Badge is a badge held by the reader.
type Badge struct {
	BadgeDefinition
	DateEarned time.Time `json:"date_earned"`
}

// Badge ids. Definitions are only handed out as copies, so the catalog
// cannot be changed from outside the package.
const (
	BadgeSpeedReader   = "speed-reader"
	BadgeBookworm      = "bookworm"
	BadgePerfectStreak = "perfect-streak"
	BadgeMasterReader  = "master-reader"
)

var badgeCatalog = [...]BadgeDefinition{
	{
		ID:          BadgeSpeedReader,
		Name:        "Speed Reader",
		Description: "Read 150 words per minute",
		Icon:        "⚡",
		Rarity:      RarityRare,
		Points:      500,
	},
	{
		ID:          BadgeBookworm,
		Name:        "Bookworm",
		Description: "Complete 10 books",
		Icon:        "📚",
		Rarity:      RarityEpic,
		Points:      1000,
	},
	{
		ID:          BadgePerfectStreak,
		Name:        "Perfect Streak",
		Description: "Read every day for a week",
		Icon:        "🔥",
		Rarity:      RarityRare,
		Points:      500,
	},
	{
		ID:          BadgeMasterReader,
		Name:        "Master Reader",
		Description: "Earn 1000 points",
		Icon:        "👑",
		Rarity:      RarityLegendary,
		Points:      1500,
	},
}

// BadgeCatalog returns every badge that can be earned.
func BadgeCatalog() []BadgeDefinition {
	return append([]BadgeDefinition(nil), badgeCatalog[:]...)
}

// LookupBadge finds a badge definition by id.
func LookupBadge(id string) (BadgeDefinition, bool) {
	for _, b := range badgeCatalog {
		if b.ID == id {
			return b, true
		}
	}
	return BadgeDefinition{}, false
}

func mustBadge(id string) BadgeDefinition {
	b, ok := LookupBadge(id)
	if !ok {
		panic("rewards: unknown badge " + id)
	}
	return b
}
