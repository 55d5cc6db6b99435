package locale

import (
	"strings"
)

const (
	DefaultTimezone = "UTC"
	DefaultCurrency = "USD"
)

type Country struct {
	Code            string   // ISO 3166-1 alpha-2 country code (e.g., "ET", "US")
	Name            string   // Human-readable country name
	PhonePrefixes   []string // Valid phone number prefixes (e.g., ["+251", "251"])
	DefaultTimezone string   // IANA timezone identifier
	Currency        string   // ISO 4217 currency code
}

var (
	Countries = map[string]Country{
		"ET": {
			Code:            "ET",
			Name:            "Ethiopia",
			PhonePrefixes:   []string{"+251", "251"},
			DefaultTimezone: "Africa/Addis_Ababa",
			Currency:        "ETB",
		},
		"US": {
			Code:            "US",
			Name:            "United States",
			PhonePrefixes:   []string{"+1", "1"},
			DefaultTimezone: "America/New_York",
			Currency:        "USD",
		},
	}

	TimeZoneTags = map[string][]string{
		"ET": {"Africa/Addis_Ababa", "Africa/Nairobi"},
		"US": {"America/New_York", "America/Los_Angeles", "US/Eastern", "US/Pacific"},
	}
)

// DetectRegion maps an IANA timezone to a supported region. Unknown zones
// default to ET, where most hosts are.
func DetectRegion(tz string) string {
	for region, zones := range TimeZoneTags {
		for _, z := range zones {
			if strings.EqualFold(tz, z) {
				return region
			}
		}
	}
	return "ET"
}
