package engine

import "time"

const (
	// MinWPM is the hard lower bound the engine enforces on target speed.
	MinWPM = 50
	// rampWords is the length of the warm-up ramp at the start of the
	// flattened sequence.
	rampWords = 10
	// rampStartWPM is the speed the warm-up ramp starts from.
	rampStartWPM = 100
)

// EffectiveWPM returns the speed at which the word at flattened index i is
// shown, given target speed. The first rampWords words ramp linearly from
// rampStartWPM toward the target; the ramp is keyed on absolute position
// in the flattened sequence, so resuming mid-text does not re-ramp.
func EffectiveWPM(i, target int) float64 {
	if i < rampWords {
		return rampStartWPM + float64(target-rampStartWPM)*float64(i)/rampWords
	}
	return float64(target)
}

// Delay returns how long the word at flattened index i stays on screen.
func Delay(i, target int) time.Duration {
	return time.Duration(60000 / EffectiveWPM(i, target) * float64(time.Millisecond))
}
