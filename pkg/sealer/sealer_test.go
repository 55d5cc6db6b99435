package sealer

import (
	"encoding/base64"
	"strings"
	"testing"
)

const testKey = "lfQVRuulcL2iOhOJ2r8BYTweoSKwVAJnIF9U+AL+M60="

func TestSealRoundTrip(t *testing.T) {
	s, err := New(testKey)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	token, err := s.CreateInviteToken("booking-123", "listing-456")
	if err != nil {
		t.Fatalf("CreateInviteToken() error = %v", err)
	}

	if strings.ContainsAny(token, "+/=") {
		t.Errorf("token %q is not URL-safe", token)
	}

	bookingID, listingID, err := s.ParseInviteToken(token)
	if err != nil {
		t.Fatalf("ParseInviteToken() error = %v", err)
	}
	if bookingID != "booking-123" {
		t.Errorf("bookingID = %q, want %q", bookingID, "booking-123")
	}
	if listingID != "listing-456" {
		t.Errorf("listingID = %q, want %q", listingID, "listing-456")
	}
}

func TestTokensAreUnique(t *testing.T) {
	s, err := New(testKey)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	a, _ := s.CreateInviteToken("b", "l")
	b, _ := s.CreateInviteToken("b", "l")
	if a == b {
		t.Error("two tokens for the same payload should differ (random nonce)")
	}
}

func TestParseRejectsTamperedToken(t *testing.T) {
	s, err := New(testKey)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	token, _ := s.CreateInviteToken("booking-123", "listing-456")
	raw, _ := base64.RawURLEncoding.DecodeString(token)
	raw[len(raw)-1] ^= 0x01
	tampered := base64.RawURLEncoding.EncodeToString(raw)

	if _, _, err := s.ParseInviteToken(tampered); err == nil {
		t.Error("ParseInviteToken() should reject a tampered token")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	s, err := New(testKey)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for _, token := range []string{"", "short", "!!!not-base64!!!"} {
		if _, _, err := s.ParseInviteToken(token); err == nil {
			t.Errorf("ParseInviteToken(%q) should fail", token)
		}
	}
}

func TestNewRejectsBadKeys(t *testing.T) {
	if _, err := New("not-base64!!!"); err == nil {
		t.Error("New() should reject a non-base64 key")
	}
	short := base64.StdEncoding.EncodeToString([]byte("tooshort"))
	if _, err := New(short); err == nil {
		t.Error("New() should reject a short key")
	}
}
