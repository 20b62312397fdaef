package models

import "time"

// Holiday วันหยุดบริษัท (admin จัดการอย่างเดียว)
type Holiday struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:120;not null"`
	Date string `json:"date" gorm:"size:10;not null;index"` // YYYY-MM-DD

	CreatedAt time.Time `json:"created_at"`
}
