package region

import "strings"

// FromTimezone maps an IANA timezone name to a coarse region tag.
func FromTimezone(tz string) string {
	switch {
	case strings.HasPrefix(tz, "Europe/"):
		return "EU"
	case strings.HasPrefix(tz, "America/"):
		return "US"
	case strings.HasPrefix(tz, "Asia/"):
		return "ASIA"
	case strings.HasPrefix(tz, "Australia/"):
		return "OC"
	case strings.HasPrefix(tz, "Africa/"):
		return "AF"
	default:
		return "GLOBAL"
	}
}

// CityFromTimezone extracts the city part of an IANA timezone name,
// e.g. "Europe/Berlin" -> "Berlin", "America/New_York" -> "New York".
func CityFromTimezone(tz string) string {
	_, city, ok := strings.Cut(tz, "/")
	if !ok || city == "" {
		return "Unknown"
	}
	return strings.ReplaceAll(city, "_", " ")
}
