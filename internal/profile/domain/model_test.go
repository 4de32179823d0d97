package domain

import "testing"

func TestParseNotificationID(t *testing.T) {
	cases := []struct {
		raw  string
		want int64
		ok   bool
	}{
		{raw: "123456789", want: 123456789, ok: true},
		{raw: "  42 ", want: 42, ok: true},
		{raw: "-100200300", want: -100200300, ok: true},
		{raw: "", ok: false},
		{raw: "   ", ok: false},
		{raw: "@grower", ok: false},
		{raw: "12ab", ok: false},
		{raw: "99999999999999999999", ok: false},
	}
	for _, tc := range cases {
		got, err := ParseNotificationID(tc.raw)
		if tc.ok {
			if err != nil {
				t.Fatalf("ParseNotificationID(%q) unexpected error: %v", tc.raw, err)
			}
			if got != tc.want {
				t.Fatalf("ParseNotificationID(%q) = %d, want %d", tc.raw, got, tc.want)
			}
			continue
		}
		if err != ErrInvalidNotificationID {
			t.Fatalf("ParseNotificationID(%q) expected ErrInvalidNotificationID, got %v", tc.raw, err)
		}
	}
}

func TestNotificationIDFormatting(t *testing.T) {
	var p Profile
	if p.HasNotificationID() || p.NotificationID() != "" {
		t.Fatalf("expected empty profile")
	}
	id := int64(-5)
	p.TelegramUserID = &id
	if p.NotificationID() != "-5" {
		t.Fatalf("expected -5, got %q", p.NotificationID())
	}
}
