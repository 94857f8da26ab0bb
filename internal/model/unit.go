package model

import "time"

// Unit is a housing unit with its own set of stored images
type Unit struct {
	ID          uint       `json:"id" gorm:"primarykey"`
	Name        string     `json:"name" gorm:"type:varchar(255);uniqueIndex;not null"`
	Images      ImagePaths `json:"images" gorm:"column:image"`
	UnitTypeID  uint       `json:"unit_type_id" gorm:"index;not null"`
	UnitType    *UnitType  `json:"unit_type,omitempty" gorm:"foreignKey:UnitTypeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Description string     `json:"description" gorm:"type:text"`
	Size        string     `json:"size" gorm:"type:varchar(255)"`
	Location    string     `json:"location" gorm:"type:varchar(255)"`
	Address     string     `json:"address" gorm:"type:varchar(255)"`
	City        string     `json:"city" gorm:"type:varchar(255)"`
	Province    string     `json:"province" gorm:"type:varchar(255)"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Unit) TableName() string {
	return "unit"
}

// RecordID returns the primary key
func (u *Unit) RecordID() uint {
	return u.ID
}

// StoredImages exposes the image list for replacement in place
func (u *Unit) StoredImages() *ImagePaths {
	return &u.Images
}
