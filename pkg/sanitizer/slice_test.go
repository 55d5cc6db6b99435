package sanitizer

import (
	"reflect"
	"testing"
)

func TestNormalizeAmenities(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "dedupe after normalization",
			input: []string{"WiFi", "wifi", " WIFI "},
			want:  []string{"wifi"},
		},
		{
			name:  "drop empty values",
			input: []string{"", "  ", "kitchen"},
			want:  []string{"kitchen"},
		},
		{
			name:  "preserve order of first occurrence",
			input: []string{"Parking", "Kitchen", "parking"},
			want:  []string{"parking", "kitchen"},
		},
		{
			name:  "nil slice",
			input: nil,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeAmenities(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeAmenities(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizePhotoURLs(t *testing.T) {
	input := []string{
		"http://cdn.example.com/a.jpg",
		"https://cdn.example.com/a.jpg",
		"",
	}
	want := []string{"https://cdn.example.com/a.jpg"}

	got := NormalizePhotoURLs(input)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizePhotoURLs(%v) = %v, want %v", input, got, want)
	}
}

func TestClampPrice(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		min   float64
		max   float64
		want  float64
	}{
		{name: "within range", price: 50, min: 1, max: 10000, want: 50},
		{name: "below minimum", price: 0.5, min: 1, max: 10000, want: 1},
		{name: "above maximum", price: 20000, min: 1, max: 10000, want: 10000},
		{name: "at boundary", price: 10000, min: 1, max: 10000, want: 10000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClampPrice(tt.price, tt.min, tt.max)
			if got != tt.want {
				t.Errorf("ClampPrice(%v, %v, %v) = %v, want %v", tt.price, tt.min, tt.max, got, tt.want)
			}
		})
	}
}
