package ga

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuccessRuleAdjust(t *testing.T) {
	tests := []struct {
		name      string
		successes int
		p         float64
		clamp     bool
		want      float64
	}{
		{"above target grows", 2, 0.3, true, 0.45},
		{"below target shrinks", 0, 0.3, true, 0.27},
		{"at target unchanged", 1, 0.3, true, 0.3},
		{"clamped at one", 5, 0.9, true, 1.0},
		{"unclamped overshoots", 5, 0.9, false, 1.35},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewSuccessRule()
			r.Clamp = tt.clamp
			for i := 0; i < 5; i++ {
				r.Record(i < tt.successes)
			}

			got, adjusted := r.Adjust(tt.p)
			assert.True(t, adjusted)
			assert.InDelta(t, tt.want, got, 1e-12)

			s, m := r.Counts()
			assert.Zero(t, s)
			assert.Zero(t, m)
		})
	}
}

func TestSuccessRuleWaitsForWindow(t *testing.T) {
	r := NewSuccessRule()

	got, adjusted := r.Adjust(0.3)
	assert.False(t, adjusted, "no events yet")
	assert.Equal(t, 0.3, got)

	for i := 0; i < 4; i++ {
		r.Record(true)
	}
	got, adjusted = r.Adjust(0.3)
	assert.False(t, adjusted)
	assert.Equal(t, 0.3, got)

	s, m := r.Counts()
	assert.Equal(t, 4, s)
	assert.Equal(t, 4, m)
}
