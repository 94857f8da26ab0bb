package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Ladybert/web-api-client/internal/media"
	"github.com/Ladybert/web-api-client/internal/response"
	"github.com/Ladybert/web-api-client/internal/validation"
	"github.com/Ladybert/web-api-client/pkg/logger"
	"github.com/Ladybert/web-api-client/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the collaborators shared by every resource handler
type Deps struct {
	DB          *gorm.DB
	Validator   *validation.Validator
	Media       *media.Manager
	Metrics     *prometheus.Metrics
	PageSize    int
	MaxUploadKB int64
}

func parseID(c echo.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func pageParam(c echo.Context) int {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// validate runs rules against in. When it returns false the response
// has already been written.
func validate(c echo.Context, d Deps, entity string, rules validation.RuleSet, in *validation.Input, ignoreID uint) (bool, error) {
	log := logger.FromContext(c)

	err := d.Validator.Validate(c.Request().Context(), rules, in, ignoreID)
	if err == nil {
		return true, nil
	}

	var verr *validation.ValidationError
	if errors.As(err, &verr) {
		d.Metrics.RecordValidationFailure(entity)
		log.Warn("Validation failed",
			zap.String("entity", entity),
			zap.Any("errors", verr.Errors))
		return false, response.ValidationFailed(c, verr.Errors)
	}

	log.Error("Failed to run validation",
		zap.String("entity", entity),
		zap.Error(err))
	return false, response.Error(c, http.StatusInternalServerError, "Failed to validate request")
}

func assignIfPresent(dst *string, in *validation.Input, field string) {
	if in.Has(field) {
		*dst = in.String(field)
	}
}
