// Package interval parses human-authored interval expressions such as
// "1 year 6 months" or "90 days" into flat durations. Template authors write
// these expressions; the provisioning flow turns them into due dates.
package interval

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Calendar-approximate multipliers. A year is always 365 days and a month
// always 30 days: due dates are computed as flat offsets from the asset's
// creation time, never via calendar arithmetic.
const (
	Second = time.Second
	Minute = 60 * Second
	Hour   = 60 * Minute
	Day    = 24 * Hour
	Month  = 30 * Day
	Year   = 365 * Day
)

// MalformedIntervalError reports an expression the parser could not
// understand. Token is the offending token, or "" for an empty expression.
type MalformedIntervalError struct {
	Token string
}

func (e *MalformedIntervalError) Error() string {
	if e.Token == "" {
		return "malformed interval: empty expression"
	}
	return fmt.Sprintf("malformed interval: bad token %q", e.Token)
}

var units = map[string]time.Duration{
	"year":    Year,
	"years":   Year,
	"month":   Month,
	"months":  Month,
	"day":     Day,
	"days":    Day,
	"hour":    Hour,
	"hours":   Hour,
	"minute":  Minute,
	"minutes": Minute,
	"second":  Second,
	"seconds": Second,
}

// Parse converts an interval expression into a duration. The expression is a
// whitespace-separated sequence of (count, unit) pairs; units are
// case-insensitive and accept singular or plural form. The result is the sum
// of count*multiplier over all pairs. An empty expression, an odd number of
// tokens, a non-integer count, a negative count, an unknown unit, or a total
// exceeding the int64 nanosecond range yields a *MalformedIntervalError.
func Parse(expr string) (time.Duration, error) {
	tokens := strings.Fields(expr)
	if len(tokens) == 0 {
		return 0, &MalformedIntervalError{Token: ""}
	}
	if len(tokens)%2 != 0 {
		return 0, &MalformedIntervalError{Token: tokens[len(tokens)-1]}
	}

	var total time.Duration
	for i := 0; i < len(tokens); i += 2 {
		n, err := strconv.Atoi(tokens[i])
		if err != nil || n < 0 {
			return 0, &MalformedIntervalError{Token: tokens[i]}
		}
		mult, ok := units[strings.ToLower(tokens[i+1])]
		if !ok {
			return 0, &MalformedIntervalError{Token: tokens[i+1]}
		}
		// A duration is int64 nanoseconds, so anything past ~292 years
		// would wrap negative and put due dates in the past.
		if n > 0 && time.Duration(n) > math.MaxInt64/mult {
			return 0, &MalformedIntervalError{Token: tokens[i]}
		}
		add := time.Duration(n) * mult
		if total > math.MaxInt64-add {
			return 0, &MalformedIntervalError{Token: tokens[i]}
		}
		total += add
	}
	return total, nil
}
