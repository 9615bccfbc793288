package schedule

// Estimate returns how many back-to-back appointments of the modality's duration,
// separated by the buffer, fit in blockMinutes. Partial appointments never count.
func Estimate(blockMinutes int, m Modality, s Settings) int {
	duration := max(MinDuration, s.DurationFor(m))
	step := duration + max(0, s.BufferMinutes)
	if blockMinutes < duration || step <= 0 {
		return 0
	}
	return 1 + (blockMinutes-duration)/step
}

// Capacity returns the appointment estimate for a stored block.
func (b Block) Capacity(s Settings) int {
	return Estimate(b.Duration(), b.Modality, s)
}
