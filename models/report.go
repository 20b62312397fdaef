package models

import (
	"time"

	"gorm.io/datatypes"
)

// ประเภทรายงานประกอบใบงาน schema ของ payload ขึ้นกับฟอร์มแต่ละแบบ
const (
	ReportTypeGeneral    = "report"          // รายงานปฏิบัติงานทั่วไป
	ReportTypeExhibition = "report2"         // ออกแสดงสินค้า
	ReportTypeService    = "report3"         // ตรวจเช็ค/ซ่อม
	ReportTypeTraining   = "report_training" // ฝึกอบรม
)

// Report เอกสารแนบใบงาน เก็บ payload อิสระต่อ (job_number, report_type)
type Report struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	JobNumber  string         `json:"jobNumber" gorm:"size:40;not null;uniqueIndex:idx_report_job_type"`
	ReportType string         `json:"reportType" gorm:"size:30;not null;uniqueIndex:idx_report_job_type"`
	Payload    datatypes.JSON `json:"payload"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
