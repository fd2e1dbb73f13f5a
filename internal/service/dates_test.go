package service

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	now := time.Date(2024, 6, 1, 23, 59, 0, 0, time.Local)

	got, err := ParseDate("2023-05-01", now)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if want := time.Date(2023, 5, 1, 12, 0, 0, 0, time.Local); !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got.Location() != time.Local {
		t.Fatalf("expected local time, got %v", got.Location())
	}

	got, err = ParseDate("", now)
	if err != nil {
		t.Fatalf("parse empty: %v", err)
	}
	if !got.Equal(now) {
		t.Fatalf("expected now, got %v", got)
	}

	got, err = ParseDate("", time.Now())
	if err != nil {
		t.Fatalf("parse empty: %v", err)
	}
	if time.Since(got) > time.Second {
		t.Fatalf("expected a timestamp close to now, got %v", got)
	}

	for _, raw := range []string{"2023-5-1", "yesterday", "2023-13-01", "2023-05-01T10:00:00Z", "01.05.2023", " 2023-05-01 ", "2023-05-01\n"} {
		if _, err := ParseDate(raw, now); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("expected ErrInvalidDate for %q, got %v", raw, err)
		}
	}
}

func TestParsePageID(t *testing.T) {
	id, err := ParsePageID("42")
	if err != nil || id != 42 {
		t.Fatalf("expected 42, got %d (%v)", id, err)
	}

	for _, raw := range []string{"", "new", "-1", "0", "4.2", "99999999999"} {
		if _, err := ParsePageID(raw); !errors.Is(err, ErrBadInput) {
			t.Fatalf("expected ErrBadInput for %q, got %v", raw, err)
		}
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := invalid(ErrInvalidSlug, "URL may only contain letters, digits and hyphens")

	if !errors.Is(err, ErrInvalidSlug) {
		t.Fatal("expected kind to match")
	}
	if msg := UserMessage(err, "fallback"); msg != "URL may only contain letters, digits and hyphens" {
		t.Fatalf("unexpected message %q", msg)
	}
	if msg := UserMessage(errors.New("boom"), "fallback"); msg != "fallback" {
		t.Fatalf("expected fallback, got %q", msg)
	}
}
