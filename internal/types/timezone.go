package types

import (
	"strings"
	"time"
)

// DefaultTimezone is the billing timezone used when none is configured.
// Every calendar decision (bill period, due day, trigger times, quiet hours)
// is evaluated in the configured zone, never in host local time.
const DefaultTimezone = "Asia/Jayapura"

// timezoneAbbreviationMap maps common abbreviations to IANA identifiers so
// operators can write "WIB" in config instead of "Asia/Jakarta".
var timezoneAbbreviationMap = map[string]string{
	// Indonesian zones
	"WIB":  "Asia/Jakarta",  // Western Indonesia Time
	"WITA": "Asia/Makassar", // Central Indonesia Time
	"WIT":  "Asia/Jayapura", // Eastern Indonesia Time

	// Other common zones
	"IST": "Asia/Kolkata",
	"SGT": "Asia/Singapore",
	"JST": "Asia/Tokyo",
	"GMT": "Europe/London",
	"EST": "America/New_York",
	"PST": "America/Los_Angeles",
}

// ResolveTimezone converts a timezone abbreviation to an IANA identifier, or
// returns the input unchanged if it is not a known abbreviation.
func ResolveTimezone(timezone string) string {
	if ianaName, exists := timezoneAbbreviationMap[strings.ToUpper(timezone)]; exists {
		return ianaName
	}
	return timezone
}

// ValidateTimezone resolves abbreviations and checks the result against the
// system tz database.
func ValidateTimezone(timezone string) error {
	_, err := time.LoadLocation(ResolveTimezone(timezone))
	return err
}

// LoadTimezone returns the location for the given timezone, falling back to
// DefaultTimezone on empty input and UTC if even that fails to load.
func LoadTimezone(timezone string) *time.Location {
	if timezone == "" {
		timezone = DefaultTimezone
	}
	loc, err := time.LoadLocation(ResolveTimezone(timezone))
	if err != nil {
		return time.UTC
	}
	return loc
}
