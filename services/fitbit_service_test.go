package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMealTypeForClock(t *testing.T) {
	cases := []struct {
		clock string
		want  int
	}{
		{"07:30:00", 1}, // breakfast
		{"10:59:59", 1},
		{"12:15:00", 3}, // lunch
		{"19:00:00", 5}, // dinner
		{"23:30:00", 7}, // anytime
		{"garbage", 7},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, mealTypeForClock(tc.clock), "clock %s", tc.clock)
	}
}
