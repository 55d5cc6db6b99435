package locale

import (
	"testing"
)

func TestInferCountryFromPhone(t *testing.T) {
	tests := []struct {
		name     string
		phone    string
		wantCode string
		wantNil  bool
	}{
		{
			name:     "ethiopian phone",
			phone:    "+251911234567",
			wantCode: "ET",
		},
		{
			name:     "ethiopian phone without plus",
			phone:    "251911234567",
			wantCode: "ET",
		},
		{
			name:     "us phone",
			phone:    "+12125550123",
			wantCode: "US",
		},
		{
			name:    "unknown country",
			phone:   "+442071234567",
			wantNil: true,
		},
		{
			name:    "empty phone",
			phone:   "",
			wantNil: true,
		},
		{
			name:    "invalid phone",
			phone:   "not-a-phone",
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InferCountryFromPhone(tt.phone)
			if tt.wantNil {
				if got != nil {
					t.Errorf("InferCountryFromPhone(%q) = %v, want nil", tt.phone, got)
				}
			} else {
				if got == nil {
					t.Errorf("InferCountryFromPhone(%q) = nil, want country with code %q", tt.phone, tt.wantCode)
				} else if got.Code != tt.wantCode {
					t.Errorf("InferCountryFromPhone(%q).Code = %q, want %q", tt.phone, got.Code, tt.wantCode)
				}
			}
		})
	}
}

func TestInferTimezoneFromPhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  string
	}{
		{
			name:  "ethiopian phone returns addis ababa timezone",
			phone: "+251911234567",
			want:  "Africa/Addis_Ababa",
		},
		{
			name:  "us phone returns new york timezone",
			phone: "+12125550123",
			want:  "America/New_York",
		},
		{
			name:  "unknown phone returns utc",
			phone: "+442071234567",
			want:  "UTC",
		},
		{
			name:  "empty phone returns utc",
			phone: "",
			want:  "UTC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InferTimezoneFromPhone(tt.phone)
			if got != tt.want {
				t.Errorf("InferTimezoneFromPhone(%q) = %q, want %q", tt.phone, got, tt.want)
			}
		})
	}
}

func TestInferCurrency(t *testing.T) {
	tests := []struct {
		name    string
		country string
		want    string
	}{
		{name: "ethiopia prices in birr", country: "ET", want: "ETB"},
		{name: "lowercase code", country: "et", want: "ETB"},
		{name: "united states", country: "US", want: "USD"},
		{name: "unsupported country falls back to usd", country: "DE", want: "USD"},
		{name: "empty country falls back to usd", country: "", want: "USD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InferCurrency(tt.country)
			if got != tt.want {
				t.Errorf("InferCurrency(%q) = %q, want %q", tt.country, got, tt.want)
			}
		})
	}
}

func TestDetectRegion(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		want     string
	}{
		{name: "addis ababa", timezone: "Africa/Addis_Ababa", want: "ET"},
		{name: "case insensitive", timezone: "africa/addis_ababa", want: "ET"},
		{name: "new york", timezone: "America/New_York", want: "US"},
		{name: "unknown defaults to ET", timezone: "Europe/Berlin", want: "ET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectRegion(tt.timezone)
			if got != tt.want {
				t.Errorf("DetectRegion(%q) = %q, want %q", tt.timezone, got, tt.want)
			}
		})
	}
}
