package model

import "time"

// ResidentialEstate is a housing estate listing
type ResidentialEstate struct {
	ID          uint       `json:"id" gorm:"primarykey"`
	HousingName string     `json:"housing_name" gorm:"type:varchar(255);uniqueIndex;not null"`
	Images      ImagePaths `json:"images" gorm:"column:image"`
	UnitTypeID  uint       `json:"unit_type_id" gorm:"index;not null"`
	UnitType    *UnitType  `json:"unit_type,omitempty" gorm:"foreignKey:UnitTypeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Description string     `json:"description" gorm:"type:text"`
	Size        string     `json:"size" gorm:"type:varchar(255)"`
	Location    string     `json:"location" gorm:"type:varchar(255)"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (ResidentialEstate) TableName() string {
	return "residential_estates"
}

// RecordID returns the primary key
func (e *ResidentialEstate) RecordID() uint {
	return e.ID
}

// StoredImages exposes the image list for replacement in place
func (e *ResidentialEstate) StoredImages() *ImagePaths {
	return &e.Images
}
