package types

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestAmountConstructors(t *testing.T) {
	tests := []struct {
		name    string
		amount  Amount
		display string
	}{
		{"Zero", Zero(), "0"},
		{"Uint64", NewAmount(4900), "4900"},
		{"Parsed", MustParseAmount("1200"), "1200"},
		{"Large", MustParseAmount("340282366920938463463374607431768211456"), "340282366920938463463374607431768211456"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.amount.String(); got != tt.display {
				t.Errorf("String: got %s, want %s", got, tt.display)
			}
		})
	}
}

func TestParseAmountRejectsBadInput(t *testing.T) {
	for _, input := range []string{"", "-5", "1.5", "0x10", "abc"} {
		t.Run(input, func(t *testing.T) {
			if _, err := ParseAmount(input); err == nil {
				t.Errorf("expected error for %q", input)
			}
		})
	}
}

func TestAmountArithmetic(t *testing.T) {
	tests := []struct {
		name     string
		op       func() (Amount, error)
		expected Amount
	}{
		{"Add", func() (Amount, error) { return NewAmount(100).Add(NewAmount(200)) }, NewAmount(300)},
		{"Sub", func() (Amount, error) { return NewAmount(500).Sub(NewAmount(200)) }, NewAmount(300)},
		{"SubToZero", func() (Amount, error) { return NewAmount(500).Sub(NewAmount(500)) }, Zero()},
		{"Sum", func() (Amount, error) { return Sum(NewAmount(100), NewAmount(200), NewAmount(300)) }, NewAmount(600)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.op()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !result.Equal(tt.expected) {
				t.Errorf("got %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestAmountCheckedOverflow(t *testing.T) {
	maxU256 := MustParseAmount(strings.TrimSpace(
		"115792089237316195423570985008687907853269984665640564039457584007913129639935"))

	if _, err := maxU256.Add(NewAmount(1)); !errors.Is(err, ErrOverflow) {
		t.Errorf("expected ErrOverflow, got %v", err)
	}
	if _, err := Zero().Sub(NewAmount(1)); !errors.Is(err, ErrUnderflow) {
		t.Errorf("expected ErrUnderflow, got %v", err)
	}
}

func TestAmountComparisons(t *testing.T) {
	small, big := NewAmount(100), NewAmount(200)

	if !small.LessThan(big) || big.LessThan(small) {
		t.Error("LessThan misordered")
	}
	if !big.GreaterThan(small) || small.GreaterThan(big) {
		t.Error("GreaterThan misordered")
	}
	if !small.Min(big).Equal(small) || !small.Max(big).Equal(big) {
		t.Error("Min/Max misordered")
	}
	if small.Cmp(big) != -1 || big.Cmp(small) != 1 || small.Cmp(small) != 0 {
		t.Error("Cmp misordered")
	}
	if !Zero().IsZero() || small.IsZero() {
		t.Error("IsZero wrong")
	}
}

func TestAmountJSONRoundTrip(t *testing.T) {
	original := MustParseAmount("115792089237316195423570985008687907853269984665640564039457584007913129639935")

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"115792089237316195423570985008687907853269984665640564039457584007913129639935"` {
		t.Errorf("unexpected encoding: %s", data)
	}

	var decoded Amount
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !decoded.Equal(original) {
		t.Errorf("round-trip mismatch: %v != %v", decoded, original)
	}
}

func TestAmountScan(t *testing.T) {
	tests := []struct {
		name     string
		src      any
		expected Amount
		wantErr  bool
	}{
		{"String", "1200", NewAmount(1200), false},
		{"Bytes", []byte("900"), NewAmount(900), false},
		{"Int64", int64(42), NewAmount(42), false},
		{"Nil", nil, Zero(), false},
		{"NegativeInt64", int64(-1), Zero(), true},
		{"Float", 1.5, Zero(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Amount
			err := a.Scan(tt.src)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("scan: %v", err)
			}
			if !a.Equal(tt.expected) {
				t.Errorf("got %v, want %v", a, tt.expected)
			}
		})
	}
}
