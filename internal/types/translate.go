package types

import (
	"errors"

	"tastebuddin/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
)

// StoreError maps a repository error onto the API sentinels.
func StoreError(log logger.Logger, err error, msg string, args ...any) error {
	args = append(args, "error", err)

	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return log.ErrorWithType(ErrNotFound, msg, args...)
	case errors.Is(err, repositories.ErrConflict):
		return log.ErrorWithType(ErrConflict, msg, args...)
	default:
		return log.ErrorWithType(ErrUnavailable, msg, args...)
	}
}
