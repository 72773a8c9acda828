package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDecimal(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"100.5", 100.5},
		{"0", 0},
		{"-3.25", -3.25},
		{"1e3", 1000},
		{"", 0},
		{"abc", 0},
		{"NaN", 0},
		{"Inf", 0},
		{"-Inf", 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseDecimal(tc.in), tc.in)
	}
}
