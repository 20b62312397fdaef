package handlers

import (
	"errors"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/thanaphatj/WOSystem/availability"
	"github.com/thanaphatj/WOSystem/database"
	"github.com/thanaphatj/WOSystem/lifecycle"
	"github.com/thanaphatj/WOSystem/models"
)

type EventHandler struct{}

func NewEventHandler() *EventHandler { return &EventHandler{} }

var rePhone = regexp.MustCompile(`^[0-9\- ]{1,15}$`)

type eventPayload struct {
	JobNumber     string   `json:"jobNumber"`
	Location      string   `json:"location"`
	Details       string   `json:"details"`
	Howto         string   `json:"howto"`
	ContactPerson string   `json:"contactPerson"`
	PhoneNumber   string   `json:"phoneNumber"`
	Start         string   `json:"start"`
	End           string   `json:"end"`
	OrderDate     string   `json:"orderDate"`
	JobTypes      []string `json:"jobTypes"`
	Workers       []string `json:"workers"`
	Assigners     []string `json:"assigners"`
	IsUrgent      bool     `json:"isUrgent"`
}

func cleanNames(names []string) []string {
	out := lo.FilterMap(names, func(s string, _ int) (string, bool) {
		n := lifecycle.NormalizeName(s)
		return n, n != ""
	})
	return lo.Uniq(out)
}

func (p *eventPayload) normalize() {
	p.JobNumber = strings.TrimSpace(p.JobNumber)
	p.Location = strings.TrimSpace(p.Location)
	p.Details = strings.TrimSpace(p.Details)
	p.Howto = strings.TrimSpace(p.Howto)
	p.ContactPerson = strings.TrimSpace(p.ContactPerson)
	p.PhoneNumber = strings.TrimSpace(p.PhoneNumber)
	p.JobTypes = cleanNames(p.JobTypes)
	p.Workers = cleanNames(p.Workers)
	p.Assigners = cleanNames(p.Assigners)
}

func validateEvent(p *eventPayload) map[string]string {
	fields := map[string]string{}
	if !isDateYYYYMMDD(p.Start) {
		fields["start"] = "ต้องเป็น YYYY-MM-DD"
	}
	if !isDateYYYYMMDD(p.End) {
		fields["end"] = "ต้องเป็น YYYY-MM-DD"
	}
	if p.Start != "" && p.End != "" && p.End < p.Start {
		fields["end"] = "ต้องไม่ก่อนวันเริ่มงาน"
	}
	if p.OrderDate != "" && !isDateYYYYMMDD(p.OrderDate) {
		fields["orderDate"] = "ต้องเป็น YYYY-MM-DD หรือเว้นว่าง"
	}
	if p.PhoneNumber != "" && !rePhone.MatchString(p.PhoneNumber) {
		fields["phoneNumber"] = "เบอร์โทรไม่ถูกต้อง"
	}
	return fields
}

// หมายเลขงานซ้ำหรือไม่ (สแกนตอนเขียน ไม่ได้บังคับที่ฐานข้อมูล)
func jobNumberTaken(jobNumber string, excludeID uint) (bool, error) {
	if jobNumber == "" {
		return false, nil
	}
	var n int64
	tx := database.DB.Model(&models.Event{}).Where("job_number = ?", jobNumber)
	if excludeID > 0 {
		tx = tx.Where("id <> ?", excludeID)
	}
	if err := tx.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// แปลง error จาก lifecycle เป็น HTTP response
func lifecycleError(err error) error {
	switch {
	case errors.Is(err, lifecycle.ErrNotApprovable),
		errors.Is(err, lifecycle.ErrNotRejectable),
		errors.Is(err, lifecycle.ErrNotCloseable),
		errors.Is(err, lifecycle.ErrNotEditable):
		return echo.NewHTTPError(http.StatusConflict, map[string]any{"error": "INVALID_STATE", "message": err.Error()})
	case errors.Is(err, lifecycle.ErrNotWorker):
		return echo.NewHTTPError(http.StatusForbidden, map[string]any{"error": "NOT_WORKER", "message": err.Error()})
	case errors.Is(err, lifecycle.ErrReasonRequired):
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "REASON_REQUIRED", "message": err.Error()})
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
}

func loadEvent(c echo.Context) (*models.Event, error) {
	if _, err := mustID(c); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	var ev models.Event
	if err := database.DB.First(&ev, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	return &ev, nil
}

// GET /events?status=&queue=manager
// queue=manager คืนเฉพาะงานที่ยังรออนุมัติ เรียงตามลำดับหน้าจอผู้จัดการ
func (h *EventHandler) List(c echo.Context) error {
	var rows []models.Event

	tx := database.DB.Model(&models.Event{})
	if s := strings.TrimSpace(c.QueryParam("status")); s != "" {
		tx = tx.Where("status = ?", s)
	}
	if err := tx.Order("id ASC").Find(&rows).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}

	if c.QueryParam("queue") == "manager" {
		rows = lo.Filter(rows, func(ev models.Event, _ int) bool {
			return lifecycle.IsPending(ev.Status)
		})
	}
	lifecycle.SortForDisplay(rows)

	return c.JSON(http.StatusOK, rows)
}

// GET /events/:id
func (h *EventHandler) Get(c echo.Context) error {
	ev, err := loadEvent(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ev)
}

// POST /events
func (h *EventHandler) Create(c echo.Context) error {
	var p eventPayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()

	if fields := validateEvent(&p); len(fields) > 0 {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": fields})
	}

	taken, err := jobNumberTaken(p.JobNumber, 0)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	if taken {
		return echo.NewHTTPError(http.StatusConflict, map[string]any{
			"error":   "DUPLICATE_JOB_NUMBER",
			"message": "หมายเลขงาน \"" + p.JobNumber + "\" ซ้ำกับงานที่มีอยู่แล้ว",
		})
	}

	ev := models.Event{
		JobNumber:     p.JobNumber,
		Location:      p.Location,
		Details:       p.Details,
		Howto:         p.Howto,
		ContactPerson: p.ContactPerson,
		PhoneNumber:   p.PhoneNumber,
		StartDate:     p.Start,
		EndDate:       p.End,
		OrderDate:     p.OrderDate,
		JobTypes:      datatypes.NewJSONSlice(p.JobTypes),
		Workers:       datatypes.NewJSONSlice(p.Workers),
		Assigners:     datatypes.NewJSONSlice(p.Assigners),
		IsUrgent:      p.IsUrgent,
		Status:        lifecycle.InitialStatus(p.IsUrgent),
	}
	if err := database.DB.Create(&ev).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, map[string]any{"id": ev.ID, "status": ev.Status})
}

// PUT /events/:id — ส่งฟอร์มซ้ำจะรีเซ็ตสถานะกลับไปรออนุมัติตาม isUrgent ปัจจุบัน
func (h *EventHandler) Update(c echo.Context) error {
	ev, err := loadEvent(c)
	if err != nil {
		return err
	}
	if !lifecycle.CanEdit(ev.Status) {
		return lifecycleError(lifecycle.ErrNotEditable)
	}

	var p eventPayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()

	if fields := validateEvent(&p); len(fields) > 0 {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": fields})
	}

	taken, err := jobNumberTaken(p.JobNumber, ev.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	if taken {
		return echo.NewHTTPError(http.StatusConflict, map[string]any{
			"error":   "DUPLICATE_JOB_NUMBER",
			"message": "หมายเลขงาน \"" + p.JobNumber + "\" ซ้ำกับงานที่มีอยู่แล้ว",
		})
	}

	ev.JobNumber = p.JobNumber
	ev.Location = p.Location
	ev.Details = p.Details
	ev.Howto = p.Howto
	ev.ContactPerson = p.ContactPerson
	ev.PhoneNumber = p.PhoneNumber
	ev.StartDate = p.Start
	ev.EndDate = p.End
	ev.OrderDate = p.OrderDate
	ev.JobTypes = datatypes.NewJSONSlice(p.JobTypes)
	ev.Workers = datatypes.NewJSONSlice(p.Workers)
	ev.Assigners = datatypes.NewJSONSlice(p.Assigners)
	ev.IsUrgent = p.IsUrgent
	ev.Status = lifecycle.InitialStatus(p.IsUrgent)

	if err := database.DB.Save(ev).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, ev)
}

// DELETE /events/:id — ลบได้เฉพาะงานที่ยังไม่อนุมัติ
func (h *EventHandler) Delete(c echo.Context) error {
	ev, err := loadEvent(c)
	if err != nil {
		return err
	}
	if !lifecycle.CanEdit(ev.Status) {
		return lifecycleError(lifecycle.ErrNotEditable)
	}
	if err := database.DB.Delete(ev).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_DELETE_FAILED"})
	}
	return c.NoContent(http.StatusNoContent)
}

type approveReq struct {
	SignType string `json:"signType"` // เซ็นเอง / เซ็นแทน
}

// POST /events/:id/approve
func (h *EventHandler) Approve(c echo.Context) error {
	ev, err := loadEvent(c)
	if err != nil {
		return err
	}

	var req approveReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	signType := strings.TrimSpace(req.SignType)
	if signType == "" {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "SIGN_TYPE_REQUIRED"})
	}

	out, err := lifecycle.Approve(ev, actorName(c), signType, time.Now())
	if err != nil {
		return lifecycleError(err)
	}
	if err := database.DB.Model(ev).Updates(out.Updates).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_UPDATE_FAILED"})
	}

	// ตัวนับงานต่อคนเป็น best-effort: พลาดแล้วไม่ rollback สถานะ
	if out.Final {
		bumpWorkerCounts(ev.Workers)
	}

	return c.JSON(http.StatusOK, map[string]any{"id": ev.ID, "status": out.Status})
}

func bumpWorkerCounts(workers []string) {
	now := time.Now()
	for _, w := range workers {
		name := lifecycle.NormalizeName(w)
		if name == "" {
			continue
		}
		tx := database.DB.Model(&models.WorkerCount{}).
			Where("name = ?", name).
			Updates(map[string]any{"count": gorm.Expr("count + 1"), "last_updated": now})
		if tx.Error != nil {
			log.Printf("[events] bump worker count %q failed: %v", name, tx.Error)
			continue
		}
		if tx.RowsAffected == 0 {
			rec := models.WorkerCount{Name: name, Count: 1, LastUpdated: now}
			if err := database.DB.Create(&rec).Error; err != nil {
				log.Printf("[events] create worker count %q failed: %v", name, err)
			}
		}
	}
}

// POST /events/:id/reject
func (h *EventHandler) Reject(c echo.Context) error {
	ev, err := loadEvent(c)
	if err != nil {
		return err
	}
	updates, err := lifecycle.Reject(ev, actorName(c), time.Now())
	if err != nil {
		return lifecycleError(err)
	}
	if err := database.DB.Model(ev).Updates(updates).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_UPDATE_FAILED"})
	}
	return c.JSON(http.StatusOK, map[string]any{"id": ev.ID, "status": models.StatusRejected})
}

// POST /events/:id/complete
func (h *EventHandler) Complete(c echo.Context) error {
	ev, err := loadEvent(c)
	if err != nil {
		return err
	}
	updates, err := lifecycle.Complete(ev, actorName(c))
	if err != nil {
		return lifecycleError(err)
	}
	if err := database.DB.Model(ev).Updates(updates).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_UPDATE_FAILED"})
	}
	return c.JSON(http.StatusOK, map[string]any{"id": ev.ID, "status": models.StatusCompleted})
}

type incompleteReq struct {
	Reason string `json:"reason"`
}

// POST /events/:id/incomplete
func (h *EventHandler) Incomplete(c echo.Context) error {
	ev, err := loadEvent(c)
	if err != nil {
		return err
	}
	var req incompleteReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	updates, err := lifecycle.Incomplete(ev, actorName(c), req.Reason)
	if err != nil {
		return lifecycleError(err)
	}
	if err := database.DB.Model(ev).Updates(updates).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_UPDATE_FAILED"})
	}
	return c.JSON(http.StatusOK, map[string]any{"id": ev.ID, "status": models.StatusIncomplete})
}

// POST /events/:id/acknowledge
// รับทราบซ้ำไม่ใช่ error: ตอบ 200 พร้อมข้อความแจ้ง รายชื่อไม่เปลี่ยน
func (h *EventHandler) Acknowledge(c echo.Context) error {
	ev, err := loadEvent(c)
	if err != nil {
		return err
	}
	updates, err := lifecycle.Acknowledge(ev, actorName(c), time.Now())
	if err != nil {
		if errors.Is(err, lifecycle.ErrAlreadyAcknowledged) {
			return c.JSON(http.StatusOK, map[string]any{
				"id": ev.ID, "already": true,
				"message": "คุณได้รับทราบงานนี้แล้ว",
			})
		}
		return lifecycleError(err)
	}
	if err := database.DB.Model(ev).Updates(updates).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_UPDATE_FAILED"})
	}
	acked := updates["acknowledged_by"].(datatypes.JSONSlice[string])
	return c.JSON(http.StatusOK, map[string]any{
		"id": ev.ID, "acknowledged": true,
		"acknowledgedBy": []string(acked),
	})
}

// GET /events/availability?worker=&start=&end=&exclude=
// ใช้เปิด/ปิด checkbox ผู้ปฏิบัติงานตอนเลือกวัน เป็นเชิงแนะนำเท่านั้น
func (h *EventHandler) Availability(c echo.Context) error {
	worker := strings.TrimSpace(c.QueryParam("worker"))
	start := strings.TrimSpace(c.QueryParam("start"))
	end := strings.TrimSpace(c.QueryParam("end"))
	if worker == "" {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "WORKER_REQUIRED"})
	}

	excludeID := uint(atoiOr(c.QueryParam("exclude"), 0))

	var leaves []models.Leave
	if err := database.DB.Find(&leaves).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	var events []models.Event
	if err := database.DB.Find(&events).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}

	chk := availability.Checker{Leaves: leaves, Events: events}
	free, err := chk.IsWorkerAvailable(worker, start, end, excludeID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{
			"error": "VALIDATION_ERROR",
			"fields": map[string]string{
				"start": "ต้องเป็น YYYY-MM-DD",
				"end":   "ต้องเป็น YYYY-MM-DD",
			},
		})
	}

	return c.JSON(http.StatusOK, map[string]any{"worker": worker, "available": free})
}
