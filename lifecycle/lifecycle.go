// Package lifecycle รวมกติกาการเปลี่ยนสถานะใบงานไว้ที่เดียว
// handler ห้ามเทียบสตริงสถานะเอง ให้เรียกผ่านฟังก์ชันในแพ็กเกจนี้เท่านั้น
package lifecycle

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
	"golang.org/x/text/unicode/norm"
	"gorm.io/datatypes"

	"github.com/thanaphatj/WOSystem/models"
)

var (
	ErrNotApprovable       = errors.New("งานนี้ไม่อยู่ในสถานะรออนุมัติ")
	ErrNotRejectable       = errors.New("งานนี้ไม่อยู่ในสถานะรออนุมัติ จึงปฏิเสธไม่ได้")
	ErrNotEditable         = errors.New("งานที่อนุมัติหรือปิดงานแล้วแก้ไขไม่ได้")
	ErrNotWorker           = errors.New("ผู้ใช้ไม่ได้เป็นผู้ปฏิบัติงานของงานนี้")
	ErrNotCloseable        = errors.New("ปิดงานได้เฉพาะงานที่อนุมัติแล้วเท่านั้น")
	ErrReasonRequired      = errors.New("ต้องระบุเหตุผลที่งานไม่เรียบร้อย")
	ErrAlreadyAcknowledged = errors.New("ผู้ใช้รับทราบงานนี้ไปแล้ว")
)

// InitialStatus สถานะเริ่มต้นตอนสร้าง/ส่งฟอร์มซ้ำ
func InitialStatus(isUrgent bool) models.EventStatus {
	if isUrgent {
		return models.StatusPendingUrgent
	}
	return models.StatusPending
}

// IsPending ยังรอการอนุมัติอยู่ (รวมรอครั้งที่ 2)
func IsPending(s models.EventStatus) bool {
	switch s {
	case models.StatusPending, models.StatusPendingUrgent, models.StatusAwaitingSecond:
		return true
	}
	return false
}

// CanEdit แก้ไข/ลบได้เฉพาะช่วงที่ยังไม่อนุมัติ
func CanEdit(s models.EventStatus) bool { return IsPending(s) }

func isApproved(s models.EventStatus) bool {
	return s == models.StatusApproved || s == models.StatusApprovedUrgent
}

// NormalizeName ตัดช่องว่างและ normalize เป็น NFC ก่อนเทียบชื่อไทย
func NormalizeName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func isListedWorker(ev *models.Event, actor string) bool {
	actorN := NormalizeName(actor)
	return lo.SomeBy(ev.Workers, func(w string) bool {
		return NormalizeName(w) == actorN
	})
}

// ApproveOutcome ผลการตัดสินใจอนุมัติ Updates คือคอลัมน์ที่ต้องเขียนลงฐานข้อมูล
type ApproveOutcome struct {
	Updates map[string]any
	Status  models.EventStatus
	// Final = การอนุมัติครบแล้ว ให้ไปบวก workerCount ของผู้ปฏิบัติงานทุกคน
	Final bool
}

// Approve คำนวณผลของการกดอนุมัติหนึ่งครั้ง
//   - งานปกติ: รออนุมัติ → อนุมัติ (ครั้งเดียวจบ)
//   - งานด่วนที่ยังไม่มี firstApproval: → รอการอนุมัติครั้งที่ 2
//   - งานด่วนที่มี firstApproval แล้ว: → อนุมัติด่วน (คนเดิมอนุมัติซ้ำได้)
func Approve(ev *models.Event, approver, signType string, now time.Time) (*ApproveOutcome, error) {
	if !IsPending(ev.Status) {
		return nil, ErrNotApprovable
	}

	if !ev.IsUrgent {
		return &ApproveOutcome{
			Status: models.StatusApproved,
			Final:  true,
			Updates: map[string]any{
				"status":        models.StatusApproved,
				"approved_by":   approver,
				"sign_type":     signType,
				"approved_time": &now,
			},
		}, nil
	}

	if !ev.FirstApproval.Present() {
		return &ApproveOutcome{
			Status: models.StatusAwaitingSecond,
			Updates: map[string]any{
				"status":                       models.StatusAwaitingSecond,
				"first_approval_approved_by":   approver,
				"first_approval_sign_type":     signType,
				"first_approval_approved_time": &now,
			},
		}, nil
	}

	return &ApproveOutcome{
		Status: models.StatusApprovedUrgent,
		Final:  true,
		Updates: map[string]any{
			"status":                        models.StatusApprovedUrgent,
			"second_approval_approved_by":   approver,
			"second_approval_sign_type":     signType,
			"second_approval_approved_time": &now,
		},
	}, nil
}

// Reject ปฏิเสธได้จากทุกสถานะที่ยังรออนุมัติ เป็นสถานะปลายทาง
func Reject(ev *models.Event, by string, now time.Time) (map[string]any, error) {
	if !IsPending(ev.Status) {
		return nil, ErrNotRejectable
	}
	return map[string]any{
		"status":        models.StatusRejected,
		"rejected_by":   by,
		"rejected_time": &now,
	}, nil
}

// Complete ผู้ปฏิบัติงานในรายชื่อเท่านั้น และงานต้องอนุมัติแล้ว
func Complete(ev *models.Event, actor string) (map[string]any, error) {
	if !isApproved(ev.Status) {
		return nil, ErrNotCloseable
	}
	if !isListedWorker(ev, actor) {
		return nil, ErrNotWorker
	}
	return map[string]any{"status": models.StatusCompleted}, nil
}

// Incomplete เหมือน Complete แต่ต้องมีเหตุผลประกอบ
func Incomplete(ev *models.Event, actor, reason string) (map[string]any, error) {
	if !isApproved(ev.Status) {
		return nil, ErrNotCloseable
	}
	if !isListedWorker(ev, actor) {
		return nil, ErrNotWorker
	}
	if strings.TrimSpace(reason) == "" {
		return nil, ErrReasonRequired
	}
	return map[string]any{
		"status":            models.StatusIncomplete,
		"incomplete_reason": strings.TrimSpace(reason),
	}, nil
}

// Acknowledge ต่อท้ายชื่อแบบไม่ซ้ำ รับทราบซ้ำถือเป็น no-op ที่ต้องแจ้งผู้ใช้
// ยอมให้กดหลังปิดงานแล้วด้วย (พฤติกรรมเดิมของระบบ)
func Acknowledge(ev *models.Event, actor string, now time.Time) (map[string]any, error) {
	if !isApproved(ev.Status) &&
		ev.Status != models.StatusCompleted && ev.Status != models.StatusIncomplete {
		return nil, ErrNotCloseable
	}
	if !isListedWorker(ev, actor) {
		return nil, ErrNotWorker
	}

	actorN := NormalizeName(actor)
	acked := NormalizeAcknowledgedBy(ev.AcknowledgedBy)
	if lo.Contains(acked, actorN) {
		return nil, ErrAlreadyAcknowledged
	}
	acked = append(acked, actorN)

	return map[string]any{
		"acknowledged":    true,
		"acknowledged_by": datatypes.NewJSONSlice(acked),
		"acknowledged_at": &now,
	}, nil
}

// NormalizeAcknowledgedBy ข้อมูลเก่าบางแถวเก็บเป็นสตริงคั่น comma ใน element เดียว
// แตกออกและ normalize ให้เป็นรายชื่อไม่ซ้ำเสมอ
func NormalizeAcknowledgedBy(raw []string) []string {
	var out []string
	for _, item := range raw {
		for _, name := range strings.Split(item, ",") {
			n := NormalizeName(name)
			if n != "" && !lo.Contains(out, n) {
				out = append(out, n)
			}
		}
	}
	return out
}

// Less ลำดับการแสดงผลรายการงานของผู้จัดการ:
// รอการอนุมัติครั้งที่ 2 ขึ้นก่อน ตามด้วยงานด่วน ที่เหลือคงลำดับเดิม
func Less(a, b *models.Event) bool {
	aWaiting := a.Status == models.StatusAwaitingSecond
	bWaiting := b.Status == models.StatusAwaitingSecond
	if aWaiting != bWaiting {
		return aWaiting
	}
	if a.IsUrgent != b.IsUrgent {
		return a.IsUrgent
	}
	return false
}

// SortForDisplay จัดเรียงแบบ stable ไม่แก้ลำดับกลุ่มที่เท่ากัน
func SortForDisplay(events []models.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return Less(&events[i], &events[j])
	})
}
