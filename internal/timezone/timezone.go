package timezone

import "time"

const (
	DefaultTimezone = "America/Sao_Paulo"
	DateLayout      = "2006-01-02"
)

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// ParseDate parses a YYYY-MM-DD calendar date at midnight in the shop timezone.
func ParseDate(tz, value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, Location(tz))
}

// Today is the shop-local calendar date.
func Today(tz string) string {
	return NowIn(tz).Format(DateLayout)
}

// Display renders a YYYY-MM-DD date for emails and views; invalid input is returned as is.
func Display(value string) string {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return value
	}
	return t.Format("Monday, 2 January 2006")
}
