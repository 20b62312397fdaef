package models

import (
	"time"

	"gorm.io/datatypes"
)

// Leave วันลาของผู้ปฏิบัติงาน (ข้อมูลเดิมบางรายการเก็บชื่อไว้ใน workers แทน name)
type Leave struct {
	ID        uint                        `json:"id" gorm:"primaryKey"`
	Name      string                      `json:"name" gorm:"size:120;index"`
	Workers   datatypes.JSONSlice[string] `json:"workers,omitempty"`
	StartDate string                      `json:"start" gorm:"size:10;not null"` // YYYY-MM-DD
	EndDate   string                      `json:"end" gorm:"size:10;not null"`   // YYYY-MM-DD
	Reason    string                      `json:"reason" gorm:"type:text"`
	FileURL   string                      `json:"fileUrl,omitempty" gorm:"size:500"` // ลิงก์ไฟล์แนบ (ใบรับรองแพทย์ ฯลฯ)

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
