package database

import (
	"time"

	"github.com/thanaphatj/WOSystem/models"
)

// PurgeLoginLogs ลบ login_logs ที่เก่ากว่า retention คืนจำนวนแถวที่ลบ
func PurgeLoginLogs(retentionDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	tx := DB.Where("timestamp < ?", cutoff).Delete(&models.LoginLog{})
	return tx.RowsAffected, tx.Error
}
