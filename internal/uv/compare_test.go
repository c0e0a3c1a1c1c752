package uv

import "testing"

func TestCompareNumericPromotion(t *testing.T) {
	got, err := Compare(Int(1), Float(1.5))
	if err != nil {
		t.Fatalf("Compare(1, 1.5) returned error: %v", err)
	}
	if got != -1 {
		t.Errorf("Compare(1, 1.5) = %d, want -1", got)
	}
}

func TestCompareStrings(t *testing.T) {
	got, err := Compare(String("apple"), String("banana"))
	if err != nil {
		t.Fatalf("Compare(apple, banana) returned error: %v", err)
	}
	if got != -1 {
		t.Errorf("Compare(apple, banana) = %d, want -1", got)
	}
}

func TestCompareIncomparable(t *testing.T) {
	_, err := Compare(String("1"), Int(1))
	if err == nil {
		t.Fatal("Compare(string, int) should fail")
	}
	if _, ok := err.(*ErrIncomparable); !ok {
		t.Fatalf("expected *ErrIncomparable, got %T", err)
	}
}

func TestCompareEqual(t *testing.T) {
	got, err := Compare(Int(5), Int(5))
	if err != nil {
		t.Fatalf("Compare(5, 5) returned error: %v", err)
	}
	if got != 0 {
		t.Errorf("Compare(5, 5) = %d, want 0", got)
	}
}
