package models

import "time"

// LoginLog บันทึกการเข้าสู่ระบบ (append-only) เก็บทั้งกรณีสำเร็จและล้มเหลว
type LoginLog struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"userId" gorm:"size:60;index"`
	UserName  string    `json:"userName" gorm:"size:120"`
	Position  string    `json:"position" gorm:"size:20"`
	Status    string    `json:"status" gorm:"size:10;not null"` // success | failed
	IPAddress string    `json:"ipAddress" gorm:"size:45"`
	Browser   string    `json:"browser" gorm:"size:30"`
	OS        string    `json:"os" gorm:"size:30"`
	UserAgent string    `json:"userAgent" gorm:"size:300"`
	Timestamp time.Time `json:"timestamp" gorm:"autoCreateTime;index"`
}
