package model

import "time"

// UnitType is a categorical tag applied to units and residential estates
type UnitType struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Name      string    `json:"name" gorm:"type:varchar(255);uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (UnitType) TableName() string {
	return "unit_types"
}
