package montyhall

import "strconv"

// Slot identifies one of the three doors. The zero value is not a valid slot.
type Slot uint8

// NumSlots is the number of doors in the puzzle.
const NumSlots = 3

// Valid reports whether s is one of 1, 2 or 3.
func (s Slot) Valid() bool { return s >= 1 && s <= NumSlots }

// String returns the slot number.
func (s Slot) String() string { return strconv.Itoa(int(s)) }

// others returns the two slots different from s, in ascending order.
func others(s Slot) (lo, hi Slot) {
	lo, hi = 1, 3
	if s == 1 {
		lo = 2
	}
	if s == 3 {
		hi = 2
	}
	return lo, hi
}

// remaining returns the slot that is neither a nor b. a and b must differ.
func remaining(a, b Slot) Slot {
	return 6 - a - b
}
