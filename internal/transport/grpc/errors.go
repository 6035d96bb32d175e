package grpc

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"barberbook/backend/internal/service/appointments"
)

// toStatus maps core errors onto gRPC codes. Expected outcomes log at info or warn; only
// unexpected failures log at error, and their details stay out of the response.
func toStatus(log *slog.Logger, err error, args ...any) error {
	var (
		vErr  *appointments.ValidationError
		nfErr *appointments.NotFoundError
		tErr  *appointments.InvalidTransitionError
		sErr  *appointments.StoreError
	)
	switch {
	case errors.As(err, &vErr):
		log.Warn("invalid request", append([]any{slog.Any("err", err)}, args...)...)
		return status.Error(codes.InvalidArgument, vErr.Error())
	case errors.Is(err, appointments.ErrPastDate):
		log.Info("appointment in the past", args...)
		return status.Error(codes.InvalidArgument, "Pick a time in the future.")
	case errors.Is(err, appointments.ErrSlotTaken):
		log.Info("slot taken", args...)
		return status.Error(codes.FailedPrecondition, "That time slot is already taken. Pick a different slot.")
	case errors.Is(err, appointments.ErrIdempotencyConflict):
		log.Info("idempotency conflict", args...)
		return status.Error(codes.FailedPrecondition, "This request key was already used for a different appointment. Try again.")
	case errors.As(err, &nfErr):
		log.Info("not found", append([]any{slog.String("entity", nfErr.Entity)}, args...)...)
		return status.Error(codes.NotFound, nfErr.Entity+" not found")
	case errors.As(err, &tErr):
		log.Info("invalid transition", append([]any{slog.String("from", tErr.From.String()), slog.String("to", tErr.To.String())}, args...)...)
		return status.Error(codes.FailedPrecondition, tErr.Error())
	case errors.Is(err, context.DeadlineExceeded):
		log.Warn("deadline exceeded", args...)
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")
	case errors.As(err, &sErr):
		log.Error("store failure", append([]any{slog.Any("err", err)}, args...)...)
		return status.Error(codes.Unavailable, "temporarily unavailable, retry later")
	default:
		log.Error("request failed", append([]any{slog.Any("err", err)}, args...)...)
		return status.Error(codes.Internal, "internal error")
	}
}
