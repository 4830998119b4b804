package service

import (
	"bytes"
	"strconv"
	"testing"
)

func TestOTPGenerator_Range(t *testing.T) {
	g := NewOTPGenerator()
	for i := 0; i < 1000; i++ {
		code, err := g.Generate()
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6 digits, got %q", code)
		}
		n, err := strconv.Atoi(code)
		if err != nil {
			t.Fatalf("non-numeric code %q", code)
		}
		if n < 100000 || n > 999999 {
			t.Fatalf("code %d out of range", n)
		}
	}
}

func TestOTPGenerator_LowerBound(t *testing.T) {
	// An all-zero source yields the smallest code.
	g := &RandomOTPGenerator{src: bytes.NewReader(make([]byte, 64))}
	code, err := g.Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if code != "100000" {
		t.Fatalf("expected 100000, got %s", code)
	}
}

func TestOTPGenerator_SourceFailure(t *testing.T) {
	g := &RandomOTPGenerator{src: bytes.NewReader(nil)}
	if _, err := g.Generate(); err == nil {
		t.Fatalf("expected error from exhausted source")
	}
}
