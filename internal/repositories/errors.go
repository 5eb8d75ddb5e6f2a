package repositories

import (
	"context"
	"errors"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/sony/gobreaker/v2"
	"gorm.io/gorm"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("store unavailable")
	ErrConflict    = errors.New("already exists")
)

// classify logs a store error and wraps it in the matching sentinel.
func classify(log logger.Logger, err error, msg string, args ...any) error {
	args = append(args, "error", err)

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return log.ErrorWithType(ErrNotFound, msg, args...)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return log.ErrorWithType(ErrConflict, msg, args...)
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return log.ErrorWithType(ErrUnavailable, msg+": circuit open", args...)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return log.ErrorWithType(ErrUnavailable, msg+": request cancelled", args...)
	default:
		return log.ErrorWithType(ErrUnavailable, msg, args...)
	}
}
