package report

import "testing"

func TestFormatGDP(t *testing.T) {
	tests := []struct {
		name string
		num  float64
		want string
	}{
		{"zero", 0, "0"},
		{"below_thousand", 999, "999"},
		{"fractional", 42.5, "42.5"},
		{"thousand_boundary", 1000, "1.0K"},
		{"thousands", 125500, "125.5K"},
		{"million_boundary", 1_000_000, "1.0M"},
		{"millions", 2_340_000, "2.3M"},
		{"just_below_billion", 999_999_999, "1000.0M"},
		{"billion_boundary", 1_000_000_000, "1.0B"},
		{"billions", 187_500_000_000, "187.5B"},
		{"trillions_stay_in_billions", 2_500_000_000_000, "2500.0B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatGDP(tt.num); got != tt.want {
				t.Errorf("FormatGDP(%v) = %q, want %q", tt.num, got, tt.want)
			}
		})
	}
}

func TestRasterFlagURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"flagcdn_svg", "https://flagcdn.com/ng.svg", "https://flagcdn.com/w80/ng.png"},
		{"flagcdn_png_untouched", "https://flagcdn.com/w80/ng.png", "https://flagcdn.com/w80/ng.png"},
		{"other_host_untouched", "https://example.com/flag.svg", "https://example.com/flag.svg"},
		{"plain_url", "https://example.com/flag.png", "https://example.com/flag.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rasterFlagURL(tt.url); got != tt.want {
				t.Errorf("rasterFlagURL(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}
