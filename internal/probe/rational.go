package probe

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidRational = errors.New("invalid rational")

// ParseRational evaluates an ffprobe rational such as "24000/1001" or "30/1"
// as a true numeric ratio. A plain integer like "25" is also accepted.
func ParseRational(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidRational)
	}

	parts := strings.Split(value, "/")
	switch len(parts) {
	case 1:
		num, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidRational, value)
		}
		return float64(num), nil
	case 2:
		num, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: bad numerator in %q", ErrInvalidRational, value)
		}
		den, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: bad denominator in %q", ErrInvalidRational, value)
		}
		if den == 0 {
			return 0, fmt.Errorf("%w: zero denominator in %q", ErrInvalidRational, value)
		}
		return float64(num) / float64(den), nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidRational, value)
	}
}
