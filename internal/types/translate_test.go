package types

import (
	"errors"
	"fmt"
	"testing"

	"tastebuddin/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/stretchr/testify/assert"
)

func TestStoreError(t *testing.T) {
	log := logger.New("test")

	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{name: "Not found", err: fmt.Errorf("%w: recipe", repositories.ErrNotFound), expected: ErrNotFound},
		{name: "Conflict", err: repositories.ErrConflict, expected: ErrConflict},
		{name: "Unavailable", err: repositories.ErrUnavailable, expected: ErrUnavailable},
		{name: "Unknown", err: errors.New("boom"), expected: ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, StoreError(log, tt.err, "lookup failed"), tt.expected)
		})
	}
}
