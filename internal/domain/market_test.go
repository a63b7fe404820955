package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFinalized(t *testing.T) {
	assert.True(t, Market{Status: "finalized"}.Finalized())
	assert.True(t, Market{Status: "FINALIZED"}.Finalized())
	assert.True(t, Market{Status: "Finalized"}.Finalized())
	assert.False(t, Market{Status: "active"}.Finalized())
	assert.False(t, Market{Status: ""}.Finalized())
}

func TestClosesWithin(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	horizon := time.Hour

	tests := []struct {
		name  string
		close time.Time
		want  bool
	}{
		{"closes in the past", now.Add(-time.Minute), false},
		{"closes exactly now", now, false},
		{"closes just after now", now.Add(time.Second), true},
		{"closes mid-horizon", now.Add(30 * time.Minute), true},
		{"closes exactly at horizon", now.Add(time.Hour), true},
		{"closes past horizon", now.Add(time.Hour + time.Second), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Market{CloseTime: tt.close}
			assert.Equal(t, tt.want, m.ClosesWithin(now, horizon))
		})
	}
}
