// Package cardtype maps a card's SIID to the card family it belongs to.
package cardtype

// Type enumerates every card family the SIID range table recognizes, not
// only the ones the read-out engine knows how to fetch blocks from.
type Type int

const (
	Card5 Type = iota
	Card6
	Card8
	Card9
	Card10
	Card11
	PCard
	Card5U
	Card5R
	TCard
	FCard
	ActiveCard
	ComCardUp
	ComCardPro
	ComCardAir
)

func (t Type) String() string {
	switch t {
	case Card5:
		return "Card 5"
	case Card6:
		return "Card 6"
	case Card8:
		return "Card 8"
	case Card9:
		return "Card 9"
	case Card10:
		return "Card 10"
	case Card11:
		return "Card 11"
	case PCard:
		return "pCard"
	case Card5U:
		return "Card 5U"
	case Card5R:
		return "Card 5R"
	case TCard:
		return "T-Card"
	case FCard:
		return "fCard"
	case ActiveCard:
		return "Active Card (SIAC)"
	case ComCardUp:
		return "ComCard Up"
	case ComCardPro:
		return "ComCard Pro"
	case ComCardAir:
		return "ComCard Air"
	default:
		return "unknown card type"
	}
}

type siidRange struct {
	lo, hi uint32
	t      Type
}

// ranges must stay sorted by lo; FromSIID relies on that for its monotone
// guarantee and scans top to bottom.
var ranges = []siidRange{
	{1, 65000, Card5},
	{200001, 265000, Card5},
	{300001, 365000, Card5},
	{400001, 465000, Card5},
	{500000, 999999, Card6},
	{1000000, 1999999, Card9},
	{2000000, 2799999, Card8},
	{2800000, 2999999, ComCardUp},
	{3000000, 3999999, Card5},
	{4000000, 4999999, PCard},
	{5373953, 5438952, Card5R},
	{5570561, 5635560, Card5U},
	{6000000, 6999999, TCard},
	{7000000, 7999999, Card10},
	{8000000, 8999999, ActiveCard},
	{9000000, 9999999, Card11},
	{14000000, 14999999, FCard},
	{16777215, 16777215, ActiveCard},
}

// FromSIID derives the card family from its SIID. ok is false when the
// SIID falls in no known range.
func FromSIID(siid uint32) (t Type, ok bool) {
	for _, r := range ranges {
		if siid >= r.lo && siid <= r.hi {
			return r.t, true
		}
	}
	return 0, false
}
