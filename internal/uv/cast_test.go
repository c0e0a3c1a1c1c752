package uv

import "testing"

func TestCastIntToString(t *testing.T) {
	got, warn, err := Cast(Int(42), KindString)
	if err != nil {
		t.Fatalf("Cast(42, string) returned error: %v", err)
	}
	if warn != nil {
		t.Errorf("Cast(42, string) produced unexpected warning: %v", warn.Message)
	}
	if got.StringValue() != "42" {
		t.Errorf("Cast(42, string) = %q, want %q", got.StringValue(), "42")
	}
}

func TestCastFloatToIntWarnsOnTruncation(t *testing.T) {
	got, warn, err := Cast(Float(3.7), KindInt)
	if err != nil {
		t.Fatalf("Cast(3.7, int) returned error: %v", err)
	}
	if warn == nil {
		t.Fatal("Cast(3.7, int) should produce a truncation warning")
	}
	if got.IntValue() != 3 {
		t.Errorf("Cast(3.7, int) = %d, want 3", got.IntValue())
	}
}

func TestCastFloatToIntNoWarningWhenExact(t *testing.T) {
	_, warn, err := Cast(Float(4.0), KindInt)
	if err != nil {
		t.Fatalf("Cast(4.0, int) returned error: %v", err)
	}
	if warn != nil {
		t.Errorf("Cast(4.0, int) should not warn, got %v", warn.Message)
	}
}

func TestCastStringToIntInvalid(t *testing.T) {
	_, _, err := Cast(String("not a number"), KindInt)
	if err == nil {
		t.Fatal("Cast(\"not a number\", int) should fail")
	}
	if _, ok := err.(*CastError); !ok {
		t.Fatalf("expected *CastError, got %T", err)
	}
}

func TestCastStringToBool(t *testing.T) {
	tests := []struct {
		in      string
		want    bool
		wantErr bool
	}{
		{"true", true, false},
		{"TRUE", true, false},
		{"false", false, false},
		{"nope", false, true},
	}

	for _, tt := range tests {
		got, _, err := Cast(String(tt.in), KindBool)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Cast(%q, bool) should fail", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Cast(%q, bool) returned error: %v", tt.in, err)
		}
		if got.BoolValue() != tt.want {
			t.Errorf("Cast(%q, bool) = %v, want %v", tt.in, got.BoolValue(), tt.want)
		}
	}
}

func TestCastToArrayOrMapAlwaysFails(t *testing.T) {
	if _, _, err := Cast(Int(1), KindArray); err == nil {
		t.Error("casting to KindArray should always fail")
	}
	if _, _, err := Cast(Int(1), KindMap); err == nil {
		t.Error("casting to KindMap should always fail")
	}
}

func TestFormatFloatAppendsDecimalForIntegralValues(t *testing.T) {
	if got := FormatFloat(4.0); got != "4.0" {
		t.Errorf("FormatFloat(4.0) = %q, want %q", got, "4.0")
	}
	if got := FormatFloat(3.14); got != "3.14" {
		t.Errorf("FormatFloat(3.14) = %q, want %q", got, "3.14")
	}
}
