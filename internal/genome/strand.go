package genome

// Strand is the orientation of a feature on the chromosome.
type Strand int8

const (
	StrandUnknown Strand = 0
	StrandForward Strand = 1
	StrandReverse Strand = -1
)

// ParseStrand converts "+" and "-" to a Strand. Anything else, including
// ".", is StrandUnknown.
func ParseStrand(s string) Strand {
	switch s {
	case "+":
		return StrandForward
	case "-":
		return StrandReverse
	default:
		return StrandUnknown
	}
}

func (s Strand) String() string {
	switch s {
	case StrandForward:
		return "+"
	case StrandReverse:
		return "-"
	default:
		return "."
	}
}
