package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"barberbook/backend/internal/service/appointments"
)

// writeError maps core errors to HTTP statuses. Internal details are logged, not returned.
func writeError(c *gin.Context, log *slog.Logger, err error) {
	var (
		vErr  *appointments.ValidationError
		nfErr *appointments.NotFoundError
		tErr  *appointments.InvalidTransitionError
		sErr  *appointments.StoreError
	)
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: vErr.Error()})
	case errors.Is(err, appointments.ErrPastDate):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	case errors.Is(err, appointments.ErrSlotTaken), errors.Is(err, appointments.ErrIdempotencyConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.As(err, &nfErr):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: nfErr.Entity + " not found"})
	case errors.As(err, &tErr):
		c.JSON(http.StatusConflict, ErrorResponse{Error: tErr.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, ErrorResponse{Error: "request timed out"})
	case errors.As(err, &sErr):
		log.Error("store failure", slog.Any("err", err), slog.String("path", c.FullPath()))
		c.Header("Retry-After", "1")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "temporarily unavailable, retry later"})
	default:
		log.Error("request failed", slog.Any("err", err), slog.String("path", c.FullPath()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}
