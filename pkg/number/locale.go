package number

import (
	"errors"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	textnumber "golang.org/x/text/number"
)

const probe = 1234567.5

// FromLocale derives the separator convention used by tag.
func FromLocale(tag language.Tag) (Format, error) {
	p := message.NewPrinter(tag)
	s := p.Sprint(textnumber.Decimal(probe, textnumber.MinFractionDigits(1), textnumber.MaxFractionDigits(1)))

	var parts []string
	var current strings.Builder

	for _, r := range s {
		if r >= '0' && r <= '9' {
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}

			continue
		}

		current.WriteRune(r)
	}

	// expected "1<t>234<t>567<d>5"
	if len(parts) != 3 || parts[0] != parts[1] || !singleRune(parts[0]) || !singleRune(parts[2]) {
		return Format{}, errors.New("unsupported locale number format: " + s)
	}

	f := Format{
		Thousands: parts[0],
		Decimal:   parts[2],
	}

	if err := f.Validate(); err != nil {
		return Format{}, err
	}

	return f, nil
}

// ParseLocale is FromLocale for a BCP 47 string.
func ParseLocale(s string) (Format, error) {
	tag, err := language.Parse(s)

	if err != nil {
		return Format{}, err
	}

	return FromLocale(tag)
}
