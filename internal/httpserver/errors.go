package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"productsmgmt/internal/domain"
)

// errorResponse is the envelope for every non-2xx answer. Message is a
// string, or a list of strings for field validation failures.
type errorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   any       `json:"message"`
}

func writeMessage(c *gin.Context, status int, message any) {
	c.AbortWithStatusJSON(status, errorResponse{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
	})
}

// writeError maps domain error kinds to status codes.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeMessage(c, http.StatusBadRequest, verr.Messages)
	case errors.Is(err, domain.ErrInvalidInput):
		writeMessage(c, http.StatusBadRequest, []string{err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		writeMessage(c, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrDuplicateCode):
		writeMessage(c, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrRateUnavailable):
		writeMessage(c, http.StatusServiceUnavailable, err.Error())
	default:
		logger.WithError(err).WithField("request_id", requestID(c)).Error("unexpected error")
		writeMessage(c, http.StatusInternalServerError, "unexpected error")
	}
}
