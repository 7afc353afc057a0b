package montyhall

// Strategy identifies one of the three decision strategies.
type Strategy int

const (
	// Stick keeps the initial pick.
	Stick Strategy = iota
	// RandomSwitch re-draws uniformly among the two un-revealed slots.
	RandomSwitch
	// AlwaysSwap takes the one remaining unopened, unpicked slot.
	AlwaysSwap
)

// Strategies lists every strategy in reporting order.
var Strategies = [...]Strategy{Stick, RandomSwitch, AlwaysSwap}

// String returns the short name used in reports and metric labels.
func (s Strategy) String() string {
	switch s {
	case Stick:
		return "stick"
	case RandomSwitch:
		return "random"
	case AlwaysSwap:
		return "swap"
	default:
		return "unknown"
	}
}

// Tally counts wins per strategy. A Tally is owned by a single worker while
// it accumulates and is combined with others only through Merge.
type Tally struct {
	Stick        uint64
	RandomSwitch uint64
	AlwaysSwap   uint64
}

// Record folds the outcome of one trial into the tally.
func (t *Tally) Record(tr Trial) {
	if tr.StickWon {
		t.Stick++
	}
	if tr.RandomSwitchWon {
		t.RandomSwitch++
	}
	if tr.AlwaysSwapWon {
		t.AlwaysSwap++
	}
}

// Add returns the field-wise sum of t and o.
func (t Tally) Add(o Tally) Tally {
	return Tally{
		Stick:        t.Stick + o.Stick,
		RandomSwitch: t.RandomSwitch + o.RandomSwitch,
		AlwaysSwap:   t.AlwaysSwap + o.AlwaysSwap,
	}
}

// Wins returns the win count for s.
func (t Tally) Wins(s Strategy) uint64 {
	switch s {
	case Stick:
		return t.Stick
	case RandomSwitch:
		return t.RandomSwitch
	case AlwaysSwap:
		return t.AlwaysSwap
	default:
		return 0
	}
}

// Rate returns the win percentage of s over trials, 0 when trials is 0.
func (t Tally) Rate(s Strategy, trials uint64) float64 {
	if trials == 0 {
		return 0
	}
	return float64(t.Wins(s)) / float64(trials) * 100
}

// Merge sums tallies field by field. The result does not depend on the
// order of its arguments.
func Merge(tallies ...Tally) Tally {
	var total Tally
	for _, t := range tallies {
		total = total.Add(t)
	}
	return total
}
