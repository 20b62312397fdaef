package models

import "time"

// ตำแหน่งที่ระบบรู้จัก ใช้คุมสิทธิ์ใน middleware
const (
	PositionEngineer     = "engineer"
	PositionSales        = "sales"
	PositionManager      = "manager"
	PositionManagerSales = "managersales"
	PositionAdmin        = "admin"
)

type User struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"size:120;not null"`
	UserID   string `json:"userId" gorm:"uniqueIndex;size:60;not null"` // รหัสพนักงานที่ใช้ login
	Password string `json:"-" gorm:"not null"`                          // เก็บ bcrypt hash
	Position string `json:"position" gorm:"size:20;not null"`

	// กลุ่มงานสำหรับ dropdown เลือกผู้ปฏิบัติงาน/ผู้สั่งงาน
	// (ข้อมูลเดิมสะกดปนกันระหว่าง status/stutus — normalize ตอนรับเข้าเท่านั้น)
	// ค่า: workers | headworkers | assigners | assigner
	Workgroup string `json:"workgroup" gorm:"size:20"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
