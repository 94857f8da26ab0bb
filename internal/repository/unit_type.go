package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Ladybert/web-api-client/internal/model"

	"gorm.io/gorm"
)

// UnitTypeRepository adds cascade bookkeeping to the unit type CRUD
type UnitTypeRepository struct {
	*Repository[model.UnitType]
}

// NewUnitTypeRepository creates a unit type repository
func NewUnitTypeRepository(db *gorm.DB, opts ...Option) *UnitTypeRepository {
	return &UnitTypeRepository{Repository: New[model.UnitType](db, opts...)}
}

// DependentImages returns the stored image paths of every unit and
// residential estate that a delete of the unit type would cascade to
func (r *UnitTypeRepository) DependentImages(ctx context.Context, id uint) (model.ImagePaths, error) {
	defer r.track("dependent_images")(time.Now())

	var paths model.ImagePaths
	for _, dependent := range []interface{}{&model.Unit{}, &model.ResidentialEstate{}} {
		var rows []struct {
			Images model.ImagePaths `gorm:"column:image"`
		}
		err := r.db.WithContext(ctx).
			Model(dependent).
			Select("image").
			Where("unit_type_id = ?", id).
			Scan(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("collect dependent images of unit type %d: %w", id, err)
		}
		for _, row := range rows {
			paths = append(paths, row.Images...)
		}
	}
	return paths, nil
}
