package scoring

// Tier grades a single score for display color. TierNone marks an absent
// score; the others cover <= 2, <= 5, <= 7, <= 9 and 10.
type Tier int

const (
	TierNone Tier = iota
	TierPoor
	TierFair
	TierGood
	TierGreat
	TierPerfect
)

// TierOf grades a score. present=false yields TierNone.
func TierOf(score float64, present bool) Tier {
	switch {
	case !present:
		return TierNone
	case score <= 2:
		return TierPoor
	case score <= 5:
		return TierFair
	case score <= 7:
		return TierGood
	case score <= 9:
		return TierGreat
	default:
		return TierPerfect
	}
}
