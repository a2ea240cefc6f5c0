package number

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	ErrInvalidFormat = errors.New("invalid numeric format")
)

// Format is a locale convention for numeric tokens.
type Format struct {
	Thousands string
	Decimal   string
}

// Default groups thousands with "." and marks decimals with ",".
var Default = Format{
	Thousands: ".",
	Decimal:   ",",
}

func (f Format) Validate() error {
	if f.Thousands == "" || f.Decimal == "" {
		return errors.New("separators must not be empty")
	}

	if f.Thousands == f.Decimal {
		return errors.New("thousands and decimal separator must differ")
	}

	if strings.ContainsAny(f.Thousands+f.Decimal, "0123456789") {
		return errors.New("separators must not contain digits")
	}

	return nil
}

// Match returns the longest prefix of token made of digits and the two separators.
func (f Format) Match(token string) (string, bool) {
	i := 0

	for i < len(token) {
		if c := token[i]; c >= '0' && c <= '9' {
			i++
			continue
		}

		if n := f.separatorAt(token[i:]); n > 0 {
			i += n
			continue
		}

		break
	}

	return token[:i], i > 0
}

func (f Format) separatorAt(s string) int {
	if f.Thousands != "" && strings.HasPrefix(s, f.Thousands) {
		return len(f.Thousands)
	}

	if f.Decimal != "" && strings.HasPrefix(s, f.Decimal) {
		return len(f.Decimal)
	}

	return 0
}

// IsNumeric reports whether token starts with a numeric-looking run.
func (f Format) IsNumeric(token string) bool {
	_, ok := f.Match(token)
	return ok
}

// Truncated reports whether parsing token would drop a non-numeric suffix.
func (f Format) Truncated(token string) bool {
	run, ok := f.Match(token)
	return ok && len(run) < len(token)
}

// Parse converts the numeric prefix of token. Anything after the prefix is ignored.
func (f Format) Parse(token string) (float64, error) {
	run, ok := f.Match(token)

	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, token)
	}

	if f.Thousands != "" {
		run = strings.ReplaceAll(run, f.Thousands, "")
	}

	if f.Decimal != "" {
		run = strings.ReplaceAll(run, f.Decimal, ".")
	}

	value, err := strconv.ParseFloat(run, 64)

	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, token)
	}

	return value, nil
}

// FormatFloat renders a non-negative value with grouped thousands.
// A negative precision uses the smallest number of digits that round-trips.
func (f Format) FormatFloat(v float64, precision int) string {
	s := strconv.FormatFloat(v, 'f', precision, 64)

	integer, fraction, _ := strings.Cut(s, ".")

	var b strings.Builder

	for i, r := range integer {
		if i > 0 && (len(integer)-i)%3 == 0 {
			b.WriteString(f.Thousands)
		}

		b.WriteRune(r)
	}

	if fraction != "" {
		b.WriteString(f.Decimal)
		b.WriteString(fraction)
	}

	return b.String()
}

func (f Format) String() string {
	return fmt.Sprintf("thousands=%q decimal=%q", f.Thousands, f.Decimal)
}

func singleRune(s string) bool {
	return s != "" && utf8.RuneCountInString(s) == 1
}
