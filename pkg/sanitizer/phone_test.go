package sanitizer

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "valid E.164 format",
			input: "+251911234567",
			want:  "+251911234567",
		},
		{
			name:  "with spaces",
			input: "+251 91 123 4567",
			want:  "+251911234567",
		},
		{
			name:  "local ethiopian format",
			input: "0911234567",
			want:  "+251911234567",
		},
		{
			name:  "us number with parentheses",
			input: "+1 (212) 555-0123",
			want:  "+12125550123",
		},
		{
			name:  "leading and trailing spaces",
			input: "  +251911234567  ",
			want:  "+251911234567",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   ",
			want:  "",
		},
		{
			name:  "garbage input",
			input: "not-a-phone",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePhone(tt.input)
			if got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizePhoneIdempotent(t *testing.T) {
	input := "091 123 4567"
	once := NormalizePhone(input)
	twice := NormalizePhone(once)
	if once != twice {
		t.Errorf("NormalizePhone is not idempotent: %q != %q", once, twice)
	}
}
