package scoring

// Band is the feedback tier of an overall score.
type Band int

const (
	BandLow Band = iota
	BandModerateLow
	BandGood
	BandExcellent
)

// Band thresholds on the overall score.
const (
	moderateFrom  = 3.0
	goodFrom      = 6.0
	excellentFrom = 8.0
)

// BandOf places an overall score in its band: below 3 low, [3,6)
// moderate-low, [6,8) good, 8 and above excellent.
func BandOf(score float64) Band {
	switch {
	case score < moderateFrom:
		return BandLow
	case score < goodFrom:
		return BandModerateLow
	case score < excellentFrom:
		return BandGood
	default:
		return BandExcellent
	}
}

func (b Band) String() string {
	switch b {
	case BandLow:
		return "low"
	case BandModerateLow:
		return "moderate-low"
	case BandGood:
		return "good"
	case BandExcellent:
		return "excellent"
	}
	return "unknown"
}

var bandMessages = map[Band]string{
	BandLow: "Your emotional intelligence is still developing. Try to pay closer attention " +
		"to your own feelings and to what the people around you are going through.",
	BandModerateLow: "Your emotional intelligence is at a moderate level. You notice emotions " +
		"but do not always act on them well. Practice listening first and pausing before you react.",
	BandGood: "Your emotional intelligence is good. You understand yourself and others fairly well " +
		"and usually handle difficult moments constructively.",
	BandExcellent: "Your emotional intelligence is excellent. You read emotions accurately, stay " +
		"composed under pressure, and respond in ways that build trust.",
}

// Message returns the band's fixed feedback text.
func (b Band) Message() string {
	return bandMessages[b]
}

// OverallReasoning returns the feedback text for an overall score.
func OverallReasoning(score float64) string {
	return BandOf(score).Message()
}
