package domain

import (
	"regexp"
	"strconv"
	"strings"
)

var thousandsRegexp = regexp.MustCompile(`^\d{1,3}([.,]\d{3})+$`)

// ParseLocalizedNumber reads the first number in s using Turkish
// separators: "." groups thousands and "," marks decimals.
// "4.000 TL" is 4000, "2.500,50" is 2500.5.
func ParseLocalizedNumber(s string) (float64, bool) {
	var b strings.Builder
	started := false
scan:
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			started = true
		case (r == '.' || r == ',') && started:
			b.WriteRune(r)
		case started:
			break scan
		}
	}
	num := strings.TrimRight(b.String(), ".,")
	if num == "" {
		return 0, false
	}

	switch {
	case strings.Contains(num, ".") && strings.Contains(num, ","):
		num = strings.ReplaceAll(num, ".", "")
		num = strings.ReplaceAll(num, ",", ".")
	case thousandsRegexp.MatchString(num):
		num = strings.NewReplacer(".", "", ",", "").Replace(num)
	default:
		num = strings.ReplaceAll(num, ",", ".")
	}

	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
