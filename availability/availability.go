// Package availability ตรวจว่าผู้ปฏิบัติงานว่างในช่วงวันที่ขอหรือไม่
// โดยเทียบกับวันลาและงานอื่นที่ถูกมอบหมายไว้แล้ว
package availability

import (
	"time"

	"github.com/samber/lo"

	"github.com/thanaphatj/WOSystem/lifecycle"
	"github.com/thanaphatj/WOSystem/models"
)

const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, s)
	return t, err == nil
}

// Overlaps ช่วงวันที่ชนกันหรือไม่ นับรวมวันขอบ (วันเดียวกันถือว่าชน)
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !(aEnd.Before(bStart) || aStart.After(bEnd))
}

// Checker ทำงานบน snapshot ของวันลาและงานทั้งหมดที่ดึงมาครั้งเดียว
type Checker struct {
	Leaves []models.Leave
	Events []models.Event
}

// IsWorkerAvailable ผู้ปฏิบัติงานว่างตลอดช่วง [start, end] หรือไม่
// excludeEventID คืองานที่กำลังแก้ไขอยู่ ให้ข้ามไม่นำมาเทียบ (0 = ไม่ข้าม)
// record ที่วันที่เสียรูปแบบถือว่าไม่สร้างข้อจำกัด (ข้าม)
func (c *Checker) IsWorkerAvailable(workerName, start, end string, excludeEventID uint) (bool, error) {
	startT, ok := parseDate(start)
	if !ok {
		return false, ErrBadRange
	}
	endT, ok := parseDate(end)
	if !ok {
		return false, ErrBadRange
	}

	nameN := lifecycle.NormalizeName(workerName)

	for i := range c.Leaves {
		lv := &c.Leaves[i]
		if !leaveBelongsTo(lv, nameN) {
			continue
		}
		lvStart, ok1 := parseDate(lv.StartDate)
		lvEnd, ok2 := parseDate(lv.EndDate)
		if !ok1 || !ok2 {
			continue
		}
		if Overlaps(startT, endT, lvStart, lvEnd) {
			return false, nil
		}
	}

	for i := range c.Events {
		ev := &c.Events[i]
		if ev.ID == excludeEventID {
			continue
		}
		assigned := lo.SomeBy(ev.Workers, func(w string) bool {
			return lifecycle.NormalizeName(w) == nameN
		})
		if !assigned {
			continue
		}
		evStart, ok1 := parseDate(ev.StartDate)
		evEnd, ok2 := parseDate(ev.EndDate)
		if !ok1 || !ok2 {
			continue
		}
		if Overlaps(startT, endT, evStart, evEnd) {
			return false, nil
		}
	}

	return true, nil
}

// วันลาเก่าบางแถวเก็บชื่อไว้ในลิสต์ workers แทนช่อง name
func leaveBelongsTo(lv *models.Leave, nameN string) bool {
	if lifecycle.NormalizeName(lv.Name) == nameN {
		return true
	}
	return lo.SomeBy(lv.Workers, func(w string) bool {
		return lifecycle.NormalizeName(w) == nameN
	})
}
