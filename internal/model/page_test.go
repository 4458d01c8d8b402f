package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageRequestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   PageRequest
		want PageRequest
	}{
		{"defaults", PageRequest{}, PageRequest{Page: 0, Size: DefaultPageSize}},
		{"negative page", PageRequest{Page: -3, Size: 10}, PageRequest{Page: 0, Size: 10}},
		{"size above max", PageRequest{Page: 1, Size: 500}, PageRequest{Page: 1, Size: MaxPageSize}},
		{"huge page", PageRequest{Page: math.MaxInt / 10, Size: 100}, PageRequest{Page: MaxPageIndex, Size: 100}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.in.Normalize())
		})
	}
}

func TestPageRequestOffsetNeverOverflows(t *testing.T) {
	for _, size := range []int{1, DefaultPageSize, MaxPageSize, 1000} {
		req := PageRequest{Page: math.MaxInt, Size: size}.Normalize()
		assert.GreaterOrEqual(t, req.Offset(), 0, "size %d", size)
	}
}
