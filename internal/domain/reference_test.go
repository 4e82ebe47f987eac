package domain

import "testing"

func TestDedupeReferenceEntries(t *testing.T) {
	in := []ReferenceEntry{
		{Name: "Free ETH", Symbol: "FETH"},
		{Name: "Free ETH", Symbol: "FETH"},
		{Name: "Free ETH", Symbol: "ETH2"}, // same name, different symbol: kept
		{Name: "Free ETH", Symbol: "FETH"},
	}
	out := DedupeReferenceEntries(in)
	if len(out) != 2 {
		t.Fatalf("got %d entries, want 2: %v", len(out), out)
	}
	if out[0].Symbol != "FETH" || out[1].Symbol != "ETH2" {
		t.Errorf("first-seen order not preserved: %v", out)
	}
}

func TestDedupeReferenceEntries_Empty(t *testing.T) {
	if got := DedupeReferenceEntries(nil); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}
