package common

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLockedOutError_MatchesSentinel(t *testing.T) {
	err := &LockedOutError{Until: time.Now().Add(10 * time.Minute)}
	assert.True(t, errors.Is(err, ErrorLockedOut))
	assert.False(t, errors.Is(err, ErrorWrongPin))

	wrapped := fmt.Errorf("verify: %w", err)
	assert.True(t, errors.Is(wrapped, ErrorLockedOut))

	var lockErr *LockedOutError
	assert.True(t, errors.As(wrapped, &lockErr))
}

func TestLockedOutError_MinutesLeft(t *testing.T) {
	tests := []struct {
		name  string
		until time.Time
		want  int
	}{
		{"expired", time.Now().Add(-time.Minute), 0},
		{"just under a minute rounds up", time.Now().Add(30 * time.Second), 1},
		{"ten minutes", time.Now().Add(10*time.Minute - time.Second), 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &LockedOutError{Until: tt.until}
			assert.Equal(t, tt.want, e.MinutesLeft())
		})
	}
}
