package models

import (
	"fmt"
	"time"

	"github.com/mbaas/mbaas.go/pkg/constants"
)

const typeDate = "Date"

// Date embeds time.Time and encodes as {"__type":"Date","iso":"..."}.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	return Date{Time: t}
}

func (d Date) Encode() any {
	return map[string]any{
		constants.KeyType: typeDate,
		constants.KeyIso:  d.String(),
	}
}

func (Date) isValue() {}

// String formats the date in UTC with millisecond precision.
func (d Date) String() string {
	return d.UTC().Format(constants.DateLayout)
}

// ParseDate parses the service's ISO-8601 layout, falling back to RFC 3339.
func ParseDate(iso string) (Date, error) {
	t, err := time.Parse(constants.DateLayout, iso)
	if err == nil {
		return Date{Time: t}, nil
	}

	t, err = time.Parse(time.RFC3339Nano, iso)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", iso, err)
	}
	return Date{Time: t.UTC()}, nil
}
