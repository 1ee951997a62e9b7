package domain

import "testing"

func TestSearchStatusValid(t *testing.T) {
	for _, s := range []SearchStatus{StatusPending, StatusSearching, StatusFound, StatusNotFound} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if SearchStatus("done").Valid() {
		t.Error("unknown status should not be valid")
	}
}

func TestSearchStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to SearchStatus
		ok       bool
	}{
		{StatusPending, StatusSearching, true},
		{StatusPending, StatusFound, false},
		{StatusSearching, StatusFound, true},
		{StatusSearching, StatusNotFound, true},
		{StatusSearching, StatusPending, true}, // rollback
		{StatusFound, StatusSearching, true},   // retry
		{StatusNotFound, StatusSearching, true},
		{StatusFound, StatusNotFound, false},
		{StatusNotFound, StatusPending, false},
	}
	for _, c := range cases {
		if got := c.from.CanTransition(c.to); got != c.ok {
			t.Errorf("%s -> %s: got %v, want %v", c.from, c.to, got, c.ok)
		}
	}
}

func TestParseSearchStatus(t *testing.T) {
	if _, err := ParseSearchStatus("pending"); err != nil {
		t.Fatalf("parse pending: %v", err)
	}
	if _, err := ParseSearchStatus("enriched"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestHasKnownAuthor(t *testing.T) {
	cases := []struct {
		author string
		want   bool
	}{
		{"J.K. Rowling", true},
		{"", false},
		{"   ", false},
		{"unknown", false},
		{"Unknown", false},
		{"  UNKNOWN  ", false},
	}
	for _, c := range cases {
		b := Book{Author: c.author}
		if got := b.HasKnownAuthor(); got != c.want {
			t.Errorf("HasKnownAuthor(%q) = %v, want %v", c.author, got, c.want)
		}
	}
}
