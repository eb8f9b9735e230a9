package domain

import (
	"errors"
	"testing"
	"time"
)

func TestParseRole(t *testing.T) {
	cases := []struct {
		in   string
		want Role
		err  error
	}{
		{"", RoleLifeguard, nil},
		{"lifeguard", RoleLifeguard, nil},
		{" skipatrol ", RoleSkiPatrol, nil},
		{"admin", "", ErrInvalidRole},
		{"Lifeguard", "", ErrInvalidRole},
	}

	for _, tc := range cases {
		got, err := ParseRole(tc.in)
		if !errors.Is(err, tc.err) {
			t.Errorf("ParseRole(%q) error = %v, want %v", tc.in, err, tc.err)
		}
		if got != tc.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  A@X.com "); got != "a@x.com" {
		t.Fatalf("expected a@x.com, got %q", got)
	}
}

func TestOneTimeCode_Expired(t *testing.T) {
	now := time.Now()
	code := OneTimeCode{IssuedAt: now, ExpiresAt: now.Add(time.Minute)}

	if code.Expired(now) {
		t.Errorf("fresh code reported expired")
	}
	if !code.Expired(now.Add(time.Minute)) {
		t.Errorf("code should expire exactly at ExpiresAt")
	}
}

func TestItemPatch_Empty(t *testing.T) {
	if !(ItemPatch{}).Empty() {
		t.Errorf("zero patch should be empty")
	}
	done := true
	if (ItemPatch{Completed: &done}).Empty() {
		t.Errorf("patch with completed should not be empty")
	}
}
