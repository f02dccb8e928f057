// internal/services/generation_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemainingGenerations(t *testing.T) {
	tests := []struct {
		name      string
		freeQuota int
		usedToday int
		purchased int
		want      int
	}{
		{"fresh base tier", 1, 0, 0, 1},
		{"base tier exhausted", 1, 1, 0, 0},
		{"over-used free quota clamps to zero", 1, 5, 0, 0},
		{"credits extend past free quota", 1, 1, 3, 3},
		{"free quota consumed before credits", 5, 2, 10, 13},
		{"unlimited tier ignores usage", UnlimitedGenerations, 9999, 0, UnlimitedGenerations},
		{"unlimited tier ignores credits", UnlimitedGenerations, 0, 5, UnlimitedGenerations},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := remainingGenerations(tt.freeQuota, tt.usedToday, tt.purchased)
			assert.Equal(t, tt.want, got)
		})
	}
}
