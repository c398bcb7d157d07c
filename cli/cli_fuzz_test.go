package cli

import (
	"testing"
)

func FuzzValidateFormat(f *testing.F) {
	f.Add("svg")
	f.Add("json")
	f.Add("echarts")
	f.Add("")
	f.Add("png")
	f.Add("SVG ")

	f.Fuzz(func(t *testing.T, s string) {
		err := validateFormat(s)
		known := s == formatSVG || s == formatJSON || s == formatECharts
		if known != (err == nil) {
			t.Errorf("validateFormat(%q) = %v", s, err)
		}
	})
}

func FuzzParseDate(f *testing.F) {
	f.Add("2024-06-01T13:45:00Z")
	f.Add("")
	f.Add("not-a-date")

	f.Fuzz(func(t *testing.T, s string) {
		// Should not panic
		parseDate(s)
	})
}
