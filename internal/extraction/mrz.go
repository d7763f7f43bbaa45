package extraction

import (
	"fmt"
	"strings"
	"time"
)

// TD3 layout constants (passport booklet, two lines of 44).
const td3LineLength = 44

// ParseMRZ parses a TD3 machine-readable zone. It validates the document
// number check digit; an MRZ that fails its own checksum is worthless as a
// cross-check source, so that is an error rather than a partial result.
func ParseMRZ(line1, line2 string) (*MRZ, error) {
	if len(line1) != td3LineLength || len(line2) != td3LineLength {
		return nil, fmt.Errorf("mrz: lines must be %d characters, got %d/%d", td3LineLength, len(line1), len(line2))
	}

	number := strings.TrimRight(line2[0:9], "<")
	if !checkDigitValid(line2[0:9], line2[9]) {
		return nil, fmt.Errorf("mrz: document number check digit mismatch")
	}

	mrz := &MRZ{
		Line1:          line1,
		Line2:          line2,
		DocumentNumber: number,
		HolderName:     parseName(line1),
		Nationality:    strings.TrimRight(line2[10:13], "<"),
	}

	if expiry, err := parseMRZDate(line2[21:27]); err == nil {
		mrz.ExpiryDate = &expiry
	}

	return mrz, nil
}

// parseName extracts "SURNAME GIVEN NAMES" from positions 5..43 of line 1,
// where "<<" separates surname from given names and "<" is a space.
func parseName(line1 string) string {
	raw := line1[5:]
	parts := strings.SplitN(raw, "<<", 2)
	surname := strings.ReplaceAll(strings.Trim(parts[0], "<"), "<", " ")
	if len(parts) == 1 {
		return surname
	}
	given := strings.ReplaceAll(strings.Trim(parts[1], "<"), "<", " ")
	return strings.TrimSpace(surname + " " + given)
}

// parseMRZDate parses the YYMMDD date fields. Expiry dates are always
// near-present, so years 60+ map to the 1900s and the rest to the 2000s.
func parseMRZDate(s string) (time.Time, error) {
	t, err := time.Parse("060102", s)
	if err != nil {
		return time.Time{}, err
	}
	if t.Year() >= 2060 {
		t = t.AddDate(-100, 0, 0)
	}
	return t, nil
}

// checkDigitValid verifies an MRZ 7-3-1 check digit. '<' counts as zero,
// letters as 10..35.
func checkDigitValid(field string, digit byte) bool {
	if digit < '0' || digit > '9' {
		return false
	}
	weights := [3]int{7, 3, 1}
	sum := 0
	for i := 0; i < len(field); i++ {
		var v int
		c := field[i]
		switch {
		case c == '<':
			v = 0
		case c >= '0' && c <= '9':
			v = int(c - '0')
		case c >= 'A' && c <= 'Z':
			v = int(c-'A') + 10
		default:
			return false
		}
		sum += v * weights[i%3]
	}
	return sum%10 == int(digit-'0')
}
