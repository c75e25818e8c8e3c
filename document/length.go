package document

import (
	"fmt"
	"strconv"
	"strings"
)

// Length is a distance in English Metric Units.
type Length int64

const (
	EMU  Length = 1
	Inch Length = 914400
	Cm   Length = 360000
	Mm   Length = 36000
	Pt   Length = 12700
	Twip Length = 635
)

// Inches reports the length in inches.
func (l Length) Inches() float64 { return float64(l) / float64(Inch) }

func (l Length) String() string {
	return strconv.FormatFloat(l.Inches(), 'f', -1, 64) + "in"
}

var units = []struct {
	suffix string
	unit   Length
}{
	{"emu", EMU},
	{"twip", Twip},
	{"in", Inch},
	{`"`, Inch},
	{"cm", Cm},
	{"mm", Mm},
	{"pt", Pt},
}

// ParseLength parses values such as "2in", `1.5"`, "3cm" or "72pt".
// A bare number is taken as inches. The empty string yields zero.
func ParseLength(s string) (Length, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	unit := Inch
	num := s
	for _, u := range units {
		if strings.HasSuffix(strings.ToLower(s), u.suffix) {
			unit = u.unit
			num = strings.TrimSpace(s[:len(s)-len(u.suffix)])
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid length %q: %w", s, err)
	}
	if f < 0 {
		return 0, fmt.Errorf("invalid length %q: negative", s)
	}
	return Length(f * float64(unit)), nil
}
