package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Ladybert/web-api-client/internal/repository"
	"github.com/Ladybert/web-api-client/internal/validation"
	"github.com/Ladybert/web-api-client/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ValidationMessage is the message sent with every 422 response
const ValidationMessage = "Validation Errors"

// Envelope wraps every response body
type Envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    any                 `json:"data"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Status  int                 `json:"status"`
}

// JSON writes a successful envelope
func JSON(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, Envelope{
		Success: true,
		Message: message,
		Data:    data,
		Status:  status,
	})
}

// Error writes a failed envelope with no data
func Error(c echo.Context, status int, message string) error {
	return c.JSON(status, Envelope{
		Success: false,
		Message: message,
		Status:  status,
	})
}

// ValidationFailed writes a 422 envelope carrying the field errors
func ValidationFailed(c echo.Context, errs map[string][]string) error {
	return c.JSON(http.StatusUnprocessableEntity, Envelope{
		Success: false,
		Message: ValidationMessage,
		Errors:  errs,
		Status:  http.StatusUnprocessableEntity,
	})
}

// HTTPErrorHandler renders errors that reach echo in the envelope format
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		verr *validation.ValidationError
		he   *echo.HTTPError
	)
	status := http.StatusInternalServerError
	message := http.StatusText(status)

	switch {
	case errors.As(err, &verr):
		if werr := ValidationFailed(c, verr.Errors); werr != nil {
			logger.FromContext(c).Error("Failed to write error response", zap.Error(werr))
		}
		return
	case errors.Is(err, repository.ErrNotFound):
		status = http.StatusNotFound
		message = "Record not found"
	case errors.As(err, &he):
		status = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(status)
		}
	}

	log := logger.FromContext(c)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed",
			zap.Int("status", status),
			zap.Error(err))
	} else {
		log.Debug("Request rejected",
			zap.Int("status", status),
			zap.String("reason", fmt.Sprint(err)))
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = Error(c, status, message)
	}
	if err != nil {
		log.Error("Failed to write error response", zap.Error(err))
	}
}
