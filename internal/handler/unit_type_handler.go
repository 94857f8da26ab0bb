package handler

import (
	"errors"
	"net/http"

	"github.com/Ladybert/web-api-client/internal/model"
	"github.com/Ladybert/web-api-client/internal/repository"
	"github.com/Ladybert/web-api-client/internal/response"
	"github.com/Ladybert/web-api-client/internal/validation"
	"github.com/Ladybert/web-api-client/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const unitTypeEntity = "unit_type"

func unitTypeRules() validation.RuleSet {
	return validation.RuleSet{
		Fields: []validation.FieldRule{
			{
				Field:    "name",
				Required: true,
				Tag:      "max=255",
				Unique:   &validation.UniqueRule{Table: "unit_types", Column: "name"},
			},
		},
	}
}

// UnitTypeHandler serves the unit type resource
type UnitTypeHandler struct {
	deps Deps
	repo *repository.UnitTypeRepository
}

// NewUnitTypeHandler creates a unit type handler
func NewUnitTypeHandler(d Deps) *UnitTypeHandler {
	return &UnitTypeHandler{
		deps: d,
		repo: repository.NewUnitTypeRepository(d.DB, repository.WithMetrics(d.Metrics)),
	}
}

// List returns one page of unit types, newest first
func (h *UnitTypeHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	page := pageParam(c)
	log.Info("Listing unit types", zap.Int("page", page))

	result, err := h.repo.List(c.Request().Context(), page, h.deps.PageSize)
	if err != nil {
		log.Error("Failed to retrieve unit types", zap.Error(err))
		return response.Error(c, http.StatusInternalServerError, "Failed to retrieve unit types")
	}

	log.Info("Unit types retrieved successfully",
		zap.Int("count", len(result.Items)),
		zap.Int64("total", result.Total))
	return response.JSON(c, http.StatusOK, "List Unit Type Data",
		response.NewPagination(result.Items, result.Page, result.PageSize, result.Total, response.RequestPath(c)))
}

// Create adds a unit type
func (h *UnitTypeHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Creating new unit type")

	in, err := validation.FromRequest(c)
	if err != nil {
		return err
	}
	if ok, err := validate(c, h.deps, unitTypeEntity, unitTypeRules(), in, 0); !ok {
		return err
	}

	unitType := model.UnitType{Name: in.String("name")}
	if err := h.repo.Create(c.Request().Context(), &unitType); err != nil {
		log.Error("Failed to create unit type",
			zap.String("name", unitType.Name),
			zap.Error(err))
		return response.Error(c, http.StatusInternalServerError, "Failed to create unit type")
	}

	h.deps.Metrics.RecordOperation(unitTypeEntity, "create")
	log.Info("Unit type created successfully",
		zap.Uint("unit_type_id", unitType.ID),
		zap.String("name", unitType.Name))
	return response.JSON(c, http.StatusCreated, "Unit type data added successfully!", unitType)
}

// Get returns one unit type
func (h *UnitTypeHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)
	id, ok := parseID(c)
	if !ok {
		return response.Error(c, http.StatusNotFound, "Unit type not found")
	}
	log.Info("Getting unit type by ID", zap.Uint("unit_type_id", id))

	unitType, err := h.repo.Get(c.Request().Context(), id)
	if err != nil {
		return h.lookupFailed(c, id, err)
	}

	return response.JSON(c, http.StatusOK, "Unit type data retrieved successfully!", unitType)
}

// Update renames a unit type
func (h *UnitTypeHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	id, ok := parseID(c)
	if !ok {
		return response.Error(c, http.StatusNotFound, "Unit type not found")
	}
	log.Info("Updating unit type", zap.Uint("unit_type_id", id))

	ctx := c.Request().Context()
	unitType, err := h.repo.Get(ctx, id)
	if err != nil {
		return h.lookupFailed(c, id, err)
	}

	in, err := validation.FromRequest(c)
	if err != nil {
		return err
	}
	if ok, err := validate(c, h.deps, unitTypeEntity, unitTypeRules(), in, id); !ok {
		return err
	}

	oldName := unitType.Name
	unitType.Name = in.String("name")
	if err := h.repo.Update(ctx, unitType); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return h.lookupFailed(c, id, err)
		}
		log.Error("Failed to update unit type",
			zap.Uint("unit_type_id", id),
			zap.Error(err))
		return response.Error(c, http.StatusInternalServerError, "Failed to update unit type")
	}

	h.deps.Metrics.RecordOperation(unitTypeEntity, "update")
	log.Info("Unit type updated successfully",
		zap.Uint("unit_type_id", id),
		zap.String("old_name", oldName),
		zap.String("new_name", unitType.Name))
	return response.JSON(c, http.StatusOK, "Unit type data changed successfully!", unitType)
}

// Delete removes a unit type together with the units and estates that
// reference it, then deletes their stored images
func (h *UnitTypeHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	id, ok := parseID(c)
	if !ok {
		return response.Error(c, http.StatusNotFound, "Unit type not found")
	}
	log.Info("Deleting unit type", zap.Uint("unit_type_id", id))

	ctx := c.Request().Context()
	if _, err := h.repo.Get(ctx, id); err != nil {
		return h.lookupFailed(c, id, err)
	}

	images, err := h.repo.DependentImages(ctx, id)
	if err != nil {
		log.Error("Failed to collect dependent images",
			zap.Uint("unit_type_id", id),
			zap.Error(err))
		return response.Error(c, http.StatusInternalServerError, "Failed to delete unit type")
	}

	if err := h.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return h.lookupFailed(c, id, err)
		}
		log.Error("Failed to delete unit type",
			zap.Uint("unit_type_id", id),
			zap.Error(err))
		return response.Error(c, http.StatusInternalServerError, "Failed to delete unit type")
	}

	h.deps.Media.Remove(ctx, images)
	h.deps.Metrics.RecordOperation(unitTypeEntity, "delete")
	log.Info("Unit type deleted successfully",
		zap.Uint("unit_type_id", id),
		zap.Int("dependent_images", len(images)))
	return response.JSON(c, http.StatusOK, "Unit type data deleted successfully!", nil)
}

func (h *UnitTypeHandler) lookupFailed(c echo.Context, id uint, err error) error {
	log := logger.FromContext(c)
	if errors.Is(err, repository.ErrNotFound) {
		log.Warn("Unit type not found", zap.Uint("unit_type_id", id))
		return response.Error(c, http.StatusNotFound, "Unit type not found")
	}
	log.Error("Failed to retrieve unit type",
		zap.Uint("unit_type_id", id),
		zap.Error(err))
	return response.Error(c, http.StatusInternalServerError, "Failed to retrieve unit type")
}
