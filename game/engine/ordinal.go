package engine

import "strconv"

var smallOrdinals = [...]string{
	"zeroth", "first", "second", "third", "fourth", "fifth", "sixth",
	"seventh", "eighth", "ninth", "10th", "11th", "12th", "13th",
}

// Ordinal renders an attempt number for replies: "first", "13th", "21st".
func Ordinal(n int) string {
	if n >= 0 && n < len(smallOrdinals) {
		return smallOrdinals[n]
	}

	s := strconv.Itoa(n)
	if teens := n % 100; teens >= 11 && teens <= 13 {
		return s + "th"
	}

	switch n % 10 {
	case 1:
		return s + "st"
	case 2:
		return s + "nd"
	case 3:
		return s + "rd"
	default:
		return s + "th"
	}
}
