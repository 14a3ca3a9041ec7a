package anim

import "github.com/milk9111/assemblyviewer/common"

// ScrubberToStep converts global normalized playback progress to a step index
// and a fraction within that step. The unit interval is divided into n equal
// segments. n == 0 returns (0, 0).
func ScrubberToStep(globalProgress float64, n int) (stepIndex int, fraction float64) {
	if n <= 0 {
		return 0, 0
	}
	p := common.Clamp(globalProgress, 0, 1)
	scaled := p * float64(n)
	stepIndex = common.ClampInt(int(scaled), 0, n-1)
	fraction = common.Clamp(scaled-float64(stepIndex), 0, 1)
	return stepIndex, fraction
}

// StepToScrubber is the exact inverse of ScrubberToStep. n == 0 returns 0.
func StepToScrubber(stepIndex int, fraction float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	stepIndex = common.ClampInt(stepIndex, 0, n-1)
	fraction = common.Clamp(fraction, 0, 1)
	return (float64(stepIndex) + fraction) / float64(n)
}
