package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/geocoder89/electionhub/internal/auth"
	"github.com/geocoder89/electionhub/internal/domain/election"
	"github.com/geocoder89/electionhub/internal/domain/politician"
	"github.com/geocoder89/electionhub/internal/domain/user"
	"github.com/geocoder89/electionhub/internal/http/middlewares"
	"github.com/geocoder89/electionhub/internal/service"
	"github.com/gin-gonic/gin"
)

type APIError struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"requestId,omitempty"`
	Details   interface{} `json:"details,omitempty"`
}

func requestIDFrom(ctx *gin.Context) string {
	if id := ctx.GetString(middlewares.CtxRequestID); id != "" {
		return id
	}

	// fallback header
	return ctx.GetHeader("X-Request-Id")
}

func RespondError(ctx *gin.Context, status int, code, message string, details interface{}) {
	ctx.JSON(status, gin.H{
		"error": APIError{
			Code:      code,
			Message:   message,
			RequestID: requestIDFrom(ctx),
			Details:   details,
		},
	})
}

func RespondBadRequest(ctx *gin.Context, message string, details interface{}) {
	RespondError(ctx, http.StatusBadRequest, "invalid_request", message, details)
}

func RespondBadRequestCode(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusBadRequest, code, message, nil)
}

func RespondUnAuthorized(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusUnauthorized, code, message, nil)
}

func RespondForbidden(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusForbidden, "forbidden", message, nil)
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, "not_found", message, nil)
}

func RespondInternal(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusInternalServerError, "internal_error", message, nil)
}

func RespondConflict(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusConflict, code, message, nil)
}

// respondServiceError maps service and domain errors onto the error envelope.
// Anything unrecognised is logged and answered with a generic 500.
func respondServiceError(ctx *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		RespondUnAuthorized(ctx, "unauthorized", "Authentication required.")
	case errors.Is(err, auth.ErrForbidden):
		RespondForbidden(ctx, "Admin role required.")
	case errors.Is(err, service.ErrInvalidCredentials):
		RespondUnAuthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
	case errors.Is(err, user.ErrInvalidRole):
		RespondBadRequestCode(ctx, "invalid_role", "Role must be admin or voter.")
	case errors.Is(err, user.ErrEmailTaken):
		RespondBadRequestCode(ctx, "email_taken", "Email is already in use.")
	case errors.Is(err, election.ErrMissingFields):
		RespondBadRequestCode(ctx, "invalid_request", "start_time, end_time and blockchain_id are required.")
	case errors.Is(err, election.ErrInvalidWindow):
		RespondBadRequestCode(ctx, "invalid_window", "end_time must be after start_time.")
	case errors.Is(err, election.ErrNotFound):
		RespondNotFound(ctx, "Election not found.")
	case errors.Is(err, politician.ErrAlreadyExists):
		RespondConflict(ctx, "politician_exists", "Politician already exists in the bank.")
	default:
		slog.Default().ErrorContext(ctx.Request.Context(), "request_failed",
			"route", ctx.FullPath(),
			"request_id", requestIDFrom(ctx),
			"err", err,
		)
		RespondInternal(ctx, fallback)
	}
}
