package service

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/eventsplit/internal/calculator"
	"github.com/mmynk/eventsplit/internal/models"
	"github.com/mmynk/eventsplit/internal/storage"
)

// toConnectError maps domain and storage errors onto Connect codes.
// Anything unrecognised becomes CodeInternal.
func toConnectError(err error) error {
	var validationErr *calculator.ValidationError
	switch {
	case errors.As(err, &validationErr), errors.Is(err, models.ErrEmptyName):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrConflict):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
