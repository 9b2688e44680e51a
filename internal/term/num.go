package term

import "strconv"

// NumKind tags the three 24-bit numeric representations of the backend.
type NumKind int

const (
	U24 NumKind = iota
	I24
	F24
)

func (k NumKind) String() string {
	switch k {
	case U24:
		return "u24"
	case I24:
		return "i24"
	default:
		return "f24"
	}
}

// MaxU24 is the largest unsigned 24-bit value; character codepoints and
// symbol packs are bounded by it as well.
const MaxU24 = 0xFFFFFF

// I24 bounds.
const (
	MinI24 = -(1 << 23)
	MaxI24 = (1 << 23) - 1
)

func formatF24(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	for _, c := range s {
		if c == '.' || c == 'e' || c == 'E' {
			return s
		}
	}
	return s + ".0"
}
