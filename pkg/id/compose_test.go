package id

import "testing"

func TestCompose(t *testing.T) {
	if got := Compose("0xabc", "7"); got != "0xabc-7" {
		t.Fatalf("Compose = %q", got)
	}
	if got := Compose("0xabc", "withdraw", "7"); got != "0xabc-withdraw-7" {
		t.Fatalf("Compose with discriminator = %q", got)
	}
	// Empty parts drop out instead of producing "--".
	if got := Compose("a", "", "b"); got != "a-b" {
		t.Fatalf("Compose with empty part = %q", got)
	}
	if got := Compose(); got != "" {
		t.Fatalf("Compose() = %q, want empty", got)
	}
}

func TestComposeDeterministic(t *testing.T) {
	a := Compose("vault", "12")
	b := Compose("vault", "12")
	if a != b {
		t.Fatalf("same parts gave different keys: %q vs %q", a, b)
	}
}

func TestForLog(t *testing.T) {
	got := ForLog("vault-7", "0xdead", 3)
	if got != "vault-7-0xdead-3" {
		t.Fatalf("ForLog = %q", got)
	}
	// Distinct log indexes in one tx stay distinct.
	if ForLog("k", "0x1", 0) == ForLog("k", "0x1", 1) {
		t.Fatal("log index did not differentiate keys")
	}
}
