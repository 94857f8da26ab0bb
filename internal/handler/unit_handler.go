package handler

import (
	"net/http"

	"github.com/Ladybert/web-api-client/internal/model"
	"github.com/Ladybert/web-api-client/internal/validation"
	"github.com/Ladybert/web-api-client/pkg/logger"

	"github.com/labstack/echo/v4"
)

const unitEntity = "unit"

func unitRules(maxKB int64, update bool) validation.RuleSet {
	return validation.RuleSet{
		Fields: []validation.FieldRule{
			{
				Field:    "name",
				Required: true,
				Tag:      "max=255",
				Unique:   &validation.UniqueRule{Table: "unit", Column: "name"},
			},
			{
				Field:    "unit_type_id",
				Required: true,
				Tag:      "number",
				Exists:   &validation.ExistsRule{Table: "unit_types", Column: "id"},
			},
			{Field: "description", Required: !update, Nullable: update},
			{Field: "size", Required: !update, Nullable: update, Tag: "max=255"},
			{Field: "location", Required: !update, Nullable: update, Tag: "max=255"},
			{Field: "address", Required: !update, Nullable: update, Tag: "max=255"},
			{Field: "city", Nullable: true, Tag: "max=255"},
			{Field: "province", Nullable: true, Tag: "max=255"},
		},
		Files: []validation.FileRule{
			{Field: "image", Required: !update, Mimes: validation.ImageMimes, MaxKB: maxKB},
		},
	}
}

// UnitHandler serves the unit resource
type UnitHandler struct {
	imageResource[model.Unit, *model.Unit]
}

// NewUnitHandler creates a unit handler
func NewUnitHandler(d Deps) *UnitHandler {
	return &UnitHandler{
		imageResource: newImageResource[model.Unit, *model.Unit](d, unitEntity, "unit", "Unit not found"),
	}
}

// List returns one page of units with their unit type, newest first
func (h *UnitHandler) List(c echo.Context) error {
	return h.list(c, "List Data Units")
}

// Create validates the request, stores the uploaded images and inserts the unit
func (h *UnitHandler) Create(c echo.Context) error {
	logger.FromContext(c).Info("Creating new unit")

	in, err := validation.FromRequest(c)
	if err != nil {
		return err
	}
	if ok, err := validate(c, h.deps, unitEntity, unitRules(h.deps.MaxUploadKB, false), in, 0); !ok {
		return err
	}

	unitTypeID, err := in.Uint("unit_type_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid unit_type_id").SetInternal(err)
	}

	unit := &model.Unit{
		Name:        in.String("name"),
		UnitTypeID:  unitTypeID,
		Description: in.String("description"),
		Size:        in.String("size"),
		Location:    in.String("location"),
		Address:     in.String("address"),
		City:        in.String("city"),
		Province:    in.String("province"),
	}
	return h.create(c, unit, in.FileHeaders("image"), "Unit data added successfully!")
}

// Get returns one unit with its unit type
func (h *UnitHandler) Get(c echo.Context) error {
	return h.get(c, "Unit data retrieved successfully!")
}

// Update changes a unit. Optional fields that are absent or empty keep
// their value; new images replace every previous one.
func (h *UnitHandler) Update(c echo.Context) error {
	unit, ok, err := h.find(c)
	if !ok {
		return err
	}
	logger.FromContext(c).Info("Updating unit", h.idField(unit.ID))

	in, err := validation.FromRequest(c)
	if err != nil {
		return err
	}
	if ok, err := validate(c, h.deps, unitEntity, unitRules(h.deps.MaxUploadKB, true), in, unit.ID); !ok {
		return err
	}

	unitTypeID, err := in.Uint("unit_type_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid unit_type_id").SetInternal(err)
	}

	unit.Name = in.String("name")
	unit.UnitTypeID = unitTypeID
	unit.UnitType = nil
	assignIfPresent(&unit.Description, in, "description")
	assignIfPresent(&unit.Size, in, "size")
	assignIfPresent(&unit.Location, in, "location")
	assignIfPresent(&unit.Address, in, "address")
	assignIfPresent(&unit.City, in, "city")
	assignIfPresent(&unit.Province, in, "province")

	return h.update(c, unit, in.FileHeaders("image"), "Unit data updated successfully!")
}

// Delete removes a unit and its stored images
func (h *UnitHandler) Delete(c echo.Context) error {
	return h.remove(c, "Unit data deleted successfully!")
}
