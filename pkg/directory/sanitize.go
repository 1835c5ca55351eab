package directory

import "strings"

// cleanTitle replaces every rune outside the printable ASCII range
// [0x20,0x7E] with '?'. Handsets on the USSD bearer render anything else
// unpredictably.
func cleanTitle(title string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e {
			return '?'
		}
		return r
	}, title)
}
