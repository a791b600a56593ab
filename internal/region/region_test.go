package region

import "testing"

func TestFromTimezone(t *testing.T) {
	cases := map[string]string{
		"Europe/Berlin":    "EU",
		"America/New_York": "US",
		"Asia/Tokyo":       "ASIA",
		"Australia/Sydney": "OC",
		"Africa/Lagos":     "AF",
		"UTC":              "GLOBAL",
		"":                 "GLOBAL",
	}
	for tz, want := range cases {
		if got := FromTimezone(tz); got != want {
			t.Fatalf("FromTimezone(%q) = %q, want %q", tz, got, want)
		}
	}
}

func TestCityFromTimezone(t *testing.T) {
	if got := CityFromTimezone("Europe/Berlin"); got != "Berlin" {
		t.Fatalf("expected Berlin, got %q", got)
	}
	if got := CityFromTimezone("America/New_York"); got != "New York" {
		t.Fatalf("expected New York, got %q", got)
	}
	if got := CityFromTimezone("UTC"); got != "Unknown" {
		t.Fatalf("expected Unknown, got %q", got)
	}
	if got := CityFromTimezone("Europe/"); got != "Unknown" {
		t.Fatalf("expected Unknown for empty city, got %q", got)
	}
}
