package serialport

import (
	"sort"
	"strings"
)

// chunk is one run of a name: either all digits or no digits.
type chunk struct {
	text  string
	digit bool
}

func splitRuns(s string) []chunk {
	var out []chunk
	start := 0
	for i := 1; i <= len(s); i++ {
		if i < len(s) && isDigit(s[i]) == isDigit(s[start]) {
			continue
		}
		out = append(out, chunk{text: s[start:i], digit: isDigit(s[start])})
		start = i
	}
	return out
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// compareDigits compares two digit runs by numeric value without parsing,
// so arbitrarily long runs cannot overflow.
func compareDigits(a, b string) int {
	ta := strings.TrimLeft(a, "0")
	tb := strings.TrimLeft(b, "0")
	if len(ta) != len(tb) {
		if len(ta) < len(tb) {
			return -1
		}
		return 1
	}
	return strings.Compare(ta, tb)
}

// NaturalLess orders names so embedded numbers compare by value:
// "ttyUSB2" < "ttyUSB10". A digit run sorts before a text run at the same
// position.
func NaturalLess(a, b string) bool {
	ra, rb := splitRuns(a), splitRuns(b)
	for i := 0; i < len(ra) && i < len(rb); i++ {
		ca, cb := ra[i], rb[i]
		if ca.digit != cb.digit {
			return ca.digit
		}
		var c int
		if ca.digit {
			c = compareDigits(ca.text, cb.text)
		} else {
			c = strings.Compare(ca.text, cb.text)
		}
		if c != 0 {
			return c < 0
		}
	}
	if len(ra) != len(rb) {
		return len(ra) < len(rb)
	}
	// "01" and "1" are numerically equal; keep the order total.
	return a < b
}

// SortNatural sorts names in place using NaturalLess.
func SortNatural(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		return NaturalLess(names[i], names[j])
	})
}
