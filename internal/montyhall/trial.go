package montyhall

import (
	"fmt"
	"strconv"

	apperrors "github.com/agbru/montyhall/internal/errors"
)

// Names of the invariants checked while evaluating a trial. They appear in
// apperrors.InvariantViolation.Invariant.
const (
	InvariantWinningRange = "winning-slot-range"
	InvariantPickRange    = "pick-slot-range"
	InvariantDrawRange    = "draw-range"
	InvariantRevealPrize  = "reveal-not-winning"
	InvariantRevealPick   = "reveal-not-pick"
)

// Trial is one fully resolved round of the game.
//
// Reveal is never equal to Winning nor to Pick. When Pick != Winning exactly
// one slot satisfies that; otherwise the host picked one of two at random.
type Trial struct {
	Index           uint64
	Winning         Slot
	Pick            Slot
	Reveal          Slot
	StickWon        bool
	RandomSwitchWon bool
	AlwaysSwapWon   bool
}

// Play draws the winning slot and the participant's initial pick from src,
// then evaluates the trial. Draws happen in a fixed order: winning slot,
// initial pick, host tie-break (only when the pick is the prize), random
// switch target.
func Play(index uint64, src Source) (Trial, error) {
	winning, err := drawSlot(src, NumSlots, index)
	if err != nil {
		return Trial{}, err
	}
	pick, err := drawSlot(src, NumSlots, index)
	if err != nil {
		return Trial{}, err
	}
	return Evaluate(index, Slot(winning), Slot(pick), src)
}

// Evaluate resolves a trial for the given prize location and initial pick.
// src supplies the host's tie-break and the random-switch target, each a
// 2-way draw over the candidate slots in ascending order.
//
// The random-switch outcome always uses its own draw; it is not derived
// from the stick or swap outcome.
//
// A non-nil error is always an apperrors.InvariantViolation.
func Evaluate(index uint64, winning, pick Slot, src Source) (Trial, error) {
	if !winning.Valid() {
		return Trial{}, violation(InvariantWinningRange, index, "winning=%d", winning)
	}
	if !pick.Valid() {
		return Trial{}, violation(InvariantPickRange, index, "pick=%d", pick)
	}

	t := Trial{Index: index, Winning: winning, Pick: pick}

	if pick == winning {
		lo, hi := others(pick)
		d, err := drawSlot(src, 2, index)
		if err != nil {
			return Trial{}, err
		}
		t.Reveal = choose(d, lo, hi)
		t.StickWon = true
	} else {
		t.Reveal = remaining(winning, pick)
		t.AlwaysSwapWon = true
	}

	if t.Reveal == winning {
		return Trial{}, violation(InvariantRevealPrize, index, "reveal=%d winning=%d", t.Reveal, winning)
	}
	if t.Reveal == pick {
		return Trial{}, violation(InvariantRevealPick, index, "reveal=%d pick=%d", t.Reveal, pick)
	}

	lo, hi := others(t.Reveal)
	d, err := drawSlot(src, 2, index)
	if err != nil {
		return Trial{}, err
	}
	t.RandomSwitchWon = choose(d, lo, hi) == winning

	return t, nil
}

// AppendLine appends the diagnostic encoding of t to dst:
//
//	index:winning:pick:reveal:stick:random:swap[:worker]
//
// The worker label is omitted when empty. No newline is appended.
func (t Trial) AppendLine(dst []byte, worker string) []byte {
	dst = strconv.AppendUint(dst, t.Index, 10)
	dst = append(dst, ':', '0'+byte(t.Winning), ':', '0'+byte(t.Pick), ':', '0'+byte(t.Reveal), ':')
	dst = strconv.AppendBool(dst, t.StickWon)
	dst = append(dst, ':')
	dst = strconv.AppendBool(dst, t.RandomSwitchWon)
	dst = append(dst, ':')
	dst = strconv.AppendBool(dst, t.AlwaysSwapWon)
	if worker != "" {
		dst = append(dst, ':')
		dst = append(dst, worker...)
	}
	return dst
}

// String returns the diagnostic encoding of t without a worker label.
func (t Trial) String() string {
	return string(t.AppendLine(make([]byte, 0, 48), ""))
}

func choose(d int, lo, hi Slot) Slot {
	if d == 1 {
		return lo
	}
	return hi
}

func drawSlot(src Source, n int, index uint64) (int, error) {
	d := src.Uniform(n)
	if d < 1 || d > n {
		return 0, violation(InvariantDrawRange, index, "draw %d outside [1,%d]", d, n)
	}
	return d, nil
}

func violation(name string, index uint64, format string, args ...any) error {
	return apperrors.InvariantViolation{
		Invariant: name,
		Index:     index,
		Detail:    fmt.Sprintf(format, args...),
	}
}
