package service

import "strconv"

// parsePrice extracts a numeric value from currency-formatted price text
// like "$1,299.00" or "EUR 45". Returns false when no digits are present.
func parsePrice(text string) (float64, bool) {
	var cleaned []byte
	for i := 0; i < len(text); i++ {
		c := text[i]
		if (c >= '0' && c <= '9') || c == '.' {
			cleaned = append(cleaned, c)
		}
	}
	if len(cleaned) == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(string(cleaned), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
