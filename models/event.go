package models

import (
	"time"

	"gorm.io/datatypes"
)

// EventStatus สถานะของใบงาน (เก็บเป็นข้อความไทยตามที่หน้าบ้านแสดงผล)
type EventStatus string

const (
	StatusPending        EventStatus = "รออนุมัติ"
	StatusPendingUrgent  EventStatus = "รออนุมัติด่วน"
	StatusAwaitingSecond EventStatus = "รอการอนุมัติครั้งที่ 2"
	StatusApproved       EventStatus = "อนุมัติ"
	StatusApprovedUrgent EventStatus = "อนุมัติด่วน"
	StatusRejected       EventStatus = "ปฏิเสธ"
	StatusCompleted      EventStatus = "เรียบร้อย"
	StatusIncomplete     EventStatus = "ไม่เรียบร้อย"
)

// Approval บันทึกการอนุมัติหนึ่งครั้ง (งานด่วนต้องมี 2 ชุด)
type Approval struct {
	ApprovedBy   string     `json:"approvedBy" gorm:"size:120"`
	SignType     string     `json:"signType" gorm:"size:40"` // เซ็นเอง/เซ็นแทน
	ApprovedTime *time.Time `json:"approvedTime"`
}

func (a Approval) Present() bool { return a.ApprovedBy != "" }

type Event struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	JobNumber string `json:"jobNumber" gorm:"size:40;index"`

	Location      string `json:"location" gorm:"size:200"`
	Details       string `json:"details" gorm:"type:text"`
	Howto         string `json:"howto" gorm:"type:text"`
	ContactPerson string `json:"contactPerson" gorm:"size:120"`
	PhoneNumber   string `json:"phoneNumber" gorm:"size:30"`

	StartDate string `json:"start" gorm:"size:10;not null"` // YYYY-MM-DD
	EndDate   string `json:"end" gorm:"size:10;not null"`   // YYYY-MM-DD
	OrderDate string `json:"orderDate" gorm:"size:10"`

	JobTypes  datatypes.JSONSlice[string] `json:"jobTypes"`
	Workers   datatypes.JSONSlice[string] `json:"workers"`
	Assigners datatypes.JSONSlice[string] `json:"assigners"`

	IsUrgent bool        `json:"isUrgent"`
	Status   EventStatus `json:"status" gorm:"size:40;not null;index"`

	// งานปกติ: อนุมัติครั้งเดียว เก็บ flat ตาม payload เดิม
	ApprovedBy   string     `json:"approvedBy,omitempty" gorm:"size:120"`
	SignType     string     `json:"signType,omitempty" gorm:"size:40"`
	ApprovedTime *time.Time `json:"approvedTime,omitempty"`

	// งานด่วน: อนุมัติ 2 ครั้ง (second ต้องไม่มาก่อน first)
	FirstApproval  Approval `json:"firstApproval" gorm:"embedded;embeddedPrefix:first_approval_"`
	SecondApproval Approval `json:"secondApproval" gorm:"embedded;embeddedPrefix:second_approval_"`

	RejectedBy   string     `json:"rejectedBy,omitempty" gorm:"size:120"`
	RejectedTime *time.Time `json:"rejectedTime,omitempty"`

	Acknowledged   bool                        `json:"acknowledged"`
	AcknowledgedBy datatypes.JSONSlice[string] `json:"acknowledgedBy"`
	AcknowledgedAt *time.Time                  `json:"acknowledgedAt,omitempty"`

	IncompleteReason string `json:"incompleteReason,omitempty" gorm:"type:text"`
	Remark           string `json:"remark,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
