package audio

import "math"

// LevelData describes the current input level for status polling.
type LevelData struct {
	Level    int // 0-100 scaled from dBFS
	Clipping bool
}

// calculateLevel computes the RMS of a block of float32 samples and
// returns a scaled 0-100 level with clipping status.
func calculateLevel(samples []float32) LevelData {
	if len(samples) == 0 {
		return LevelData{Level: 0, Clipping: false}
	}

	var sum float64
	isClipping := false

	for _, s := range samples {
		abs := math.Abs(float64(s))
		sum += abs * abs
		if abs >= 1.0 {
			isClipping = true
		}
	}

	rms := math.Sqrt(sum / float64(len(samples)))

	// Convert RMS to decibels relative to full scale
	db := 20 * math.Log10(rms)

	// Scale decibels to 0-100 range, adjusted to make it more sensitive
	scaledLevel := (db + 60) * (100.0 / 50.0)

	// If the audio is clipping, ensure the level is at or near 100
	if isClipping {
		scaledLevel = math.Max(scaledLevel, 95)
	}

	// Clamp the value between 0 and 100
	if scaledLevel < 0 {
		scaledLevel = 0
	} else if scaledLevel > 100 {
		scaledLevel = 100
	}

	return LevelData{
		Level:    int(scaledLevel),
		Clipping: isClipping,
	}
}
