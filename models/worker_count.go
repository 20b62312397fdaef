package models

import "time"

// WorkerCount ตัวนับจำนวนงานที่อนุมัติแล้วต่อผู้ปฏิบัติงานหนึ่งคน
// อัปเดตแบบ best-effort หลังอนุมัติ ไม่ rollback ตามสถานะงาน
type WorkerCount struct {
	Name        string    `json:"name" gorm:"primaryKey;size:120"`
	Count       int64     `json:"count" gorm:"not null;default:0"`
	LastUpdated time.Time `json:"lastUpdated"`
}
