package arith

import "testing"

func TestLatchIsOneWay(t *testing.T) {
	Reset()
	if IsComplex() {
		t.Fatal("expected real mode after Reset")
	}
	RequireComplex()
	if !IsComplex() {
		t.Fatal("expected complex mode after RequireComplex")
	}
	Reset()
}

func TestString(t *testing.T) {
	if Real.String() != "real" || Complex.String() != "complex" {
		t.Fatalf("unexpected Mode.String(): %q %q", Real, Complex)
	}
}
