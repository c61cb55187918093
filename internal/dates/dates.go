// Package dates converts client supplied dates into the canonical storage
// form (yyyy-MM-dd) and the display form used in responses.
package dates

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// StorageLayout is zero padded and year first, so stored dates sort
	// lexicographically in calendar order.
	StorageLayout = "2006-01-02"
	// DisplayLayout renders e.g. "Mon Jan 01 2024".
	DisplayLayout = "Mon Jan 02 2006"
)

// ErrInvalidDate is returned for input that cannot be read as a date.
var ErrInvalidDate = errors.New("invalid date")

// Normalizer turns free form dates into storage and display strings.
// All calendar dates are computed in its location.
type Normalizer struct {
	loc *time.Location
	now func() time.Time
}

// NewNormalizer returns a Normalizer working in loc. A nil loc means UTC.
func NewNormalizer(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	return &Normalizer{loc: loc, now: time.Now}
}

// WithClock returns a copy of n that reads the current time from now.
func (n *Normalizer) WithClock(now func() time.Time) *Normalizer {
	return &Normalizer{loc: n.loc, now: now}
}

// Location returns the location calendar dates are computed in.
func (n *Normalizer) Location() *time.Location {
	return n.loc
}

// Today returns the current date in storage form.
func (n *Normalizer) Today() string {
	return n.now().In(n.loc).Format(StorageLayout)
}

// ForStorage converts an exercise date to storage form. An empty input
// means today. Anything else must be an ISO-8601 date or date-time.
func (n *Normalizer) ForStorage(input string) (string, error) {
	if input == "" {
		return n.Today(), nil
	}
	t, err := n.ParseISO(input)
	if err != nil {
		return "", err
	}
	return storageForm(input, t)
}

// ForDisplay converts a stored date to display form.
func (n *Normalizer) ForDisplay(stored string) (string, error) {
	t, err := n.ParseISO(stored)
	if err != nil {
		return "", err
	}
	return t.Format(DisplayLayout), nil
}

// Bound converts a log range bound to storage form. It accepts the ISO
// forms plus a handful of human readable ones ("Jan 2 2006", RFC 1123...).
func (n *Normalizer) Bound(input string) (string, error) {
	t, err := n.Parse(input)
	if err != nil {
		return "", err
	}
	return storageForm(input, t)
}

// storageForm formats t with StorageLayout. Only years 0000-9999 keep the
// fixed width the lexicographic ordering depends on; anything else is
// rejected.
func storageForm(input string, t time.Time) (string, error) {
	if y := t.Year(); y < 0 || y > 9999 {
		return "", invalid(input)
	}
	return t.Format(StorageLayout), nil
}

var (
	isoExtended = regexp.MustCompile(`^([+-]\d{6}|\d{4})(?:-(\d{2})(?:-(\d{2}))?)?$`)
	isoBasic    = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})$`)
	isoOrdinal  = regexp.MustCompile(`^(\d{4})-?(\d{3})$`)
	isoTime     = regexp.MustCompile(`^(\d{2})(?::?(\d{2})(?::?(\d{2})(?:[.,](\d+))?)?)?(Z|[+-]\d{2}(?::?\d{2})?)?$`)
)

// ParseISO reads an ISO-8601 date with an optional time part. Values
// without an explicit offset are taken in the normalizer's location; the
// result is always expressed in that location.
func (n *Normalizer) ParseISO(input string) (time.Time, error) {
	datePart, timePart := input, ""
	if i := strings.IndexAny(input, "T "); i >= 0 {
		datePart, timePart = input[:i], input[i+1:]
		if timePart == "" {
			return time.Time{}, invalid(input)
		}
	}

	year, month, day, err := parseISODate(datePart)
	if err != nil {
		return time.Time{}, invalid(input)
	}

	loc := n.loc
	var hour, minute, sec, nsec int
	if timePart != "" {
		m := isoTime.FindStringSubmatch(timePart)
		if m == nil {
			return time.Time{}, invalid(input)
		}
		hour = atoi(m[1])
		minute = atoi(m[2])
		sec = atoi(m[3])
		if m[4] != "" {
			frac := (m[4] + "000000000")[:9]
			nsec = atoi(frac)
		}
		if hour > 24 || minute > 59 || sec > 59 || (hour == 24 && (minute != 0 || sec != 0 || nsec != 0)) {
			return time.Time{}, invalid(input)
		}
		if m[5] != "" {
			zone, ok := parseZone(m[5])
			if !ok {
				return time.Time{}, invalid(input)
			}
			loc = zone
		}
	}

	t := time.Date(year, time.Month(month), day, hour, minute, sec, nsec, loc)
	return t.In(n.loc), nil
}

func parseISODate(s string) (year, month, day int, err error) {
	if m := isoExtended.FindStringSubmatch(s); m != nil {
		year = atoi(m[1])
		month, day = 1, 1
		if m[2] != "" {
			month = atoi(m[2])
		}
		if m[3] != "" {
			day = atoi(m[3])
		}
		return year, month, day, checkDate(year, month, day)
	}
	if m := isoBasic.FindStringSubmatch(s); m != nil {
		year, month, day = atoi(m[1]), atoi(m[2]), atoi(m[3])
		return year, month, day, checkDate(year, month, day)
	}
	if m := isoOrdinal.FindStringSubmatch(s); m != nil {
		year = atoi(m[1])
		ordinal := atoi(m[2])
		if ordinal < 1 || ordinal > daysIn(year) {
			return 0, 0, 0, ErrInvalidDate
		}
		t := time.Date(year, time.January, ordinal, 0, 0, 0, 0, time.UTC)
		return t.Year(), int(t.Month()), t.Day(), nil
	}
	return 0, 0, 0, ErrInvalidDate
}

func checkDate(year, month, day int) error {
	if month < 1 || month > 12 || day < 1 {
		return ErrInvalidDate
	}
	last := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > last {
		return ErrInvalidDate
	}
	return nil
}

func daysIn(year int) int {
	return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC).YearDay()
}

func parseZone(s string) (*time.Location, bool) {
	if s == "Z" {
		return time.UTC, true
	}
	sign := 1
	if s[0] == '-' {
		sign = -1
	}
	digits := strings.ReplaceAll(s[1:], ":", "")
	hours := atoi(digits[:2])
	minutes := 0
	if len(digits) == 4 {
		minutes = atoi(digits[2:])
	}
	if hours > 23 || minutes > 59 {
		return nil, false
	}
	return time.FixedZone("", sign*(hours*3600+minutes*60)), true
}

// humanLayouts are tried by Parse once the ISO forms failed.
var humanLayouts = []string{
	time.RFC3339Nano,
	time.RFC1123,
	time.RFC1123Z,
	time.RFC850,
	time.ANSIC,
	time.UnixDate,
	"Mon Jan 02 2006 15:04:05 GMT-0700",
	"Mon Jan 02 2006",
	"Mon Jan 2 2006",
	"Jan 2 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"2006/01/02",
	"2006/1/2",
	"01/02/2006",
	"1/2/2006",
}

// Parse reads a date the way a permissive client-side date constructor
// would: ISO forms first, then the common human readable layouts.
func (n *Normalizer) Parse(input string) (time.Time, error) {
	s := strings.TrimSpace(input)
	if t, err := n.ParseISO(s); err == nil {
		return t, nil
	}
	for _, layout := range humanLayouts {
		if t, err := time.ParseInLocation(layout, s, n.loc); err == nil {
			return t.In(n.loc), nil
		}
	}
	return time.Time{}, invalid(input)
}

func invalid(input string) error {
	return fmt.Errorf("%w: %q", ErrInvalidDate, input)
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	v, _ := strconv.Atoi(s)
	return v
}
