package handler

import (
	"net/http"

	"github.com/Ladybert/web-api-client/internal/model"
	"github.com/Ladybert/web-api-client/internal/validation"
	"github.com/Ladybert/web-api-client/pkg/logger"

	"github.com/labstack/echo/v4"
)

const estateEntity = "residential_estate"

func estateRules(maxKB int64, update bool) validation.RuleSet {
	return validation.RuleSet{
		Fields: []validation.FieldRule{
			{
				Field:    "housing_name",
				Required: true,
				Tag:      "max=255",
				Unique:   &validation.UniqueRule{Table: "residential_estates", Column: "housing_name"},
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
		},
		Files: []validation.FileRule{
			{Field: "image", Required: !update, Mimes: validation.ImageMimes, MaxKB: maxKB},
		},
	}
}

// ResidentialEstateHandler serves the residential estate resource
type ResidentialEstateHandler struct {
	imageResource[model.ResidentialEstate, *model.ResidentialEstate]
}

// NewResidentialEstateHandler creates a residential estate handler
func NewResidentialEstateHandler(d Deps) *ResidentialEstateHandler {
	return &ResidentialEstateHandler{
		imageResource: newImageResource[model.ResidentialEstate, *model.ResidentialEstate](
			d, estateEntity, "residential estate", "Residential Estate not found"),
	}
}

// List returns one page of residential estates, newest first
func (h *ResidentialEstateHandler) List(c echo.Context) error {
	return h.list(c, "List Data Residential Estates")
}

// Create validates the request, stores the uploaded images and inserts the estate
func (h *ResidentialEstateHandler) Create(c echo.Context) error {
	logger.FromContext(c).Info("Creating new residential estate")

	in, err := validation.FromRequest(c)
	if err != nil {
		return err
	}
	if ok, err := validate(c, h.deps, estateEntity, estateRules(h.deps.MaxUploadKB, false), in, 0); !ok {
		return err
	}

	unitTypeID, err := in.Uint("unit_type_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid unit_type_id").SetInternal(err)
	}

	estate := &model.ResidentialEstate{
		HousingName: in.String("housing_name"),
		UnitTypeID:  unitTypeID,
		Description: in.String("description"),
		Size:        in.String("size"),
		Location:    in.String("location"),
	}
	return h.create(c, estate, in.FileHeaders("image"), "Residential estate data added successfully!")
}

// Get returns one residential estate with its unit type
func (h *ResidentialEstateHandler) Get(c echo.Context) error {
	return h.get(c, "Residential estate data retrieved successfully!")
}

// Update changes a residential estate. Optional fields that are absent or
// empty keep their value; new images replace every previous one.
func (h *ResidentialEstateHandler) Update(c echo.Context) error {
	estate, ok, err := h.find(c)
	if !ok {
		return err
	}
	logger.FromContext(c).Info("Updating residential estate", h.idField(estate.ID))

	in, err := validation.FromRequest(c)
	if err != nil {
		return err
	}
	if ok, err := validate(c, h.deps, estateEntity, estateRules(h.deps.MaxUploadKB, true), in, estate.ID); !ok {
		return err
	}

	unitTypeID, err := in.Uint("unit_type_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid unit_type_id").SetInternal(err)
	}

	estate.HousingName = in.String("housing_name")
	estate.UnitTypeID = unitTypeID
	estate.UnitType = nil
	assignIfPresent(&estate.Description, in, "description")
	assignIfPresent(&estate.Size, in, "size")
	assignIfPresent(&estate.Location, in, "location")

	return h.update(c, estate, in.FileHeaders("image"), "Residential estate data updated successfully!")
}

// Delete removes a residential estate and its stored images
func (h *ResidentialEstateHandler) Delete(c echo.Context) error {
	return h.remove(c, "Residential Estate data deleted successfully!")
}
