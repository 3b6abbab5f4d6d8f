package domain

import (
	"math"
	"testing"
)

func TestValueEth(t *testing.T) {
	cases := []struct {
		name  string
		value string
		want  float64
	}{
		{"one ether", "1000000000000000000", 1.0},
		{"half ether", "500000000000000000", 0.5},
		{"zero", "0", 0},
		{"dust", "1", 1e-18},
		{"empty", "", 0},
		{"garbage", "not-a-number", 0},
		{"negative", "-5000000000000000000", 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := TransactionRecord{Value: tc.value}
			got := tx.ValueEth()
			if math.Abs(got-tc.want) > 1e-21 {
				t.Errorf("ValueEth(%q) = %v, want %v", tc.value, got, tc.want)
			}
		})
	}
}
