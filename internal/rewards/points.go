package rewards

import "math"

const (
	basePoints = 100

	accuracyBaseline = 80.0
	accuracyStep     = 5.0
	accuracyBonus    = 10

	speedBaseline = 60.0
	speedStep     = 10.0
	speedBonus    = 15
)

// SessionPoints computes the award for one session: 100, plus 10 for every
// full 5 accuracy points above 80, plus 15 for every full 10 WPM above 60.
// Below the baselines the bonuses turn negative; the award itself never
// drops below zero.
func SessionPoints(wpm, accuracy float64) int {
	if math.IsNaN(wpm) || math.IsNaN(accuracy) {
		return 0
	}
	acc := int(math.Floor((accuracy-accuracyBaseline)/accuracyStep)) * accuracyBonus
	speed := int(math.Floor((wpm-speedBaseline)/speedStep)) * speedBonus
	total := basePoints + acc + speed
	if total < 0 {
		return 0
	}
	return total
}
