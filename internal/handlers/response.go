package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/regrowhq/regrow-backend/internal/platform/apierr"
	"github.com/regrowhq/regrow-backend/internal/services"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// RespondServiceError maps domain sentinel errors onto HTTP statuses.
func RespondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProfileNotFound):
		RespondError(c, http.StatusNotFound, "profile_not_found", err)
	case errors.Is(err, services.ErrProfileExists):
		RespondError(c, http.StatusConflict, "profile_exists", err)
	case errors.Is(err, services.ErrFutureDate):
		RespondError(c, http.StatusBadRequest, "invalid_date", err)
	case errors.Is(err, services.ErrEmptyJournalEntry):
		RespondError(c, http.StatusBadRequest, "empty_journal_entry", err)
	default:
		status := apierr.StatusOf(err, http.StatusInternalServerError)
		code := apierr.CodeOf(err)
		if code == "" {
			code = "internal_error"
		}
		RespondError(c, status, code, err)
	}
}
