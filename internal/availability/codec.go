// Package availability converts 7-bit weekday masks into day sets.
//
// Bit i of a mask means the person is available on weekday i, with Monday as
// bit 0 and Sunday as bit 6. A mask of 0 means no availability and 127 means
// every day.
package availability

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"
)

// DaysPerWeek is the length of the scheduling cycle.
const DaysPerWeek = 7

// FullWeek is the mask with every weekday set.
const FullWeek = 1<<DaysPerWeek - 1

// ErrMalformedMask is returned for masks that do not fit in seven bits.
var ErrMalformedMask = errors.New("malformed availability mask")

var dayNames = [DaysPerWeek]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Validate checks that mask fits in seven bits.
func Validate(mask int) error {
	if mask < 0 || mask > FullWeek {
		return fmt.Errorf("%w: %d", ErrMalformedMask, mask)
	}
	return nil
}

// Weekdays returns the weekday indices set in mask, ascending.
func Weekdays(mask int) ([]int, error) {
	if err := Validate(mask); err != nil {
		return nil, err
	}
	days := make([]int, 0, bits.OnesCount(uint(mask)))
	for d := 0; d < DaysPerWeek; d++ {
		if mask&(1<<d) != 0 {
			days = append(days, d)
		}
	}
	return days, nil
}

// CountDays returns the number of weekdays set in mask.
func CountDays(mask int) (int, error) {
	if err := Validate(mask); err != nil {
		return 0, err
	}
	return bits.OnesCount(uint(mask)), nil
}

// Mask builds a mask from weekday indices. Out-of-range days are ignored.
func Mask(days ...int) int {
	mask := 0
	for _, d := range days {
		if d >= 0 && d < DaysPerWeek {
			mask |= 1 << d
		}
	}
	return mask
}

// DayName returns the three-letter name of a weekday index.
func DayName(day int) string {
	if day < 0 || day >= DaysPerWeek {
		return "?"
	}
	return dayNames[day]
}

// ParseDay converts a day name ("mon", "Tuesday") or index ("0".."6") to a weekday index.
func ParseDay(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) == 1 && s[0] >= '0' && s[0] <= '6' {
		return int(s[0] - '0'), nil
	}
	if len(s) >= 2 {
		for i, name := range dayNames {
			lower := strings.ToLower(name)
			if strings.HasPrefix(lower, s) || strings.HasPrefix(s, lower) {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

// ParseDays converts a comma separated day list into a mask. "all" selects
// the full week and "-" or "none" selects no days.
func ParseDays(s string) (int, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "-", "none":
		return 0, nil
	case "all":
		return FullWeek, nil
	}
	mask := 0
	for _, part := range strings.Split(s, ",") {
		d, err := ParseDay(part)
		if err != nil {
			return 0, err
		}
		mask |= 1 << d
	}
	return mask, nil
}

// Format renders a mask as a comma separated day list.
func Format(mask int) string {
	days, err := Weekdays(mask)
	if err != nil {
		return "invalid"
	}
	if len(days) == 0 {
		return "-"
	}
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = dayNames[d]
	}
	return strings.Join(names, ",")
}
