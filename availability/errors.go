package availability

import "errors"

// ErrBadRange ช่วงวันที่ที่ขอตรวจไม่ใช่ YYYY-MM-DD
var ErrBadRange = errors.New("ช่วงวันที่ต้องเป็น YYYY-MM-DD")
