package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thanaphatj/WOSystem/database"
	"github.com/thanaphatj/WOSystem/models"
)

const normalEventBody = `{
	"jobNumber": "J-100",
	"location": "อาคาร 1",
	"details": "ซ่อมแอร์",
	"start": "2025-05-01",
	"end": "2025-05-02",
	"workers": ["สมชาย"],
	"assigners": ["หัวหน้า"],
	"isUrgent": false
}`

const urgentEventBody = `{
	"jobNumber": "J-200",
	"location": "อาคาร 2",
	"details": "ไฟดับทั้งชั้น",
	"start": "2025-05-03",
	"end": "2025-05-03",
	"workers": ["สมชาย"],
	"isUrgent": true
}`

func createEvent(t *testing.T, h *EventHandler, body string) uint {
	t.Helper()
	c, rec := testCtx(http.MethodPost, "/events", body, "ผู้สั่งงาน", models.PositionEngineer)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		ID uint `json:"id"`
	}
	decodeBody(t, rec, &resp)
	require.NotZero(t, resp.ID)
	return resp.ID
}

func approveEvent(t *testing.T, h *EventHandler, id uint, approver, signType string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	c, rec := testCtx(http.MethodPost, "/events/:id/approve",
		fmt.Sprintf(`{"signType":%q}`, signType), approver, models.PositionManager)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(id))
	return rec, h.Approve(c)
}

func loadEventByID(t *testing.T, id uint) models.Event {
	t.Helper()
	var ev models.Event
	require.NoError(t, database.DB.First(&ev, id).Error)
	return ev
}

func TestUrgentJobNeedsTwoApprovals(t *testing.T) {
	setupDB(t)
	h := NewEventHandler()
	id := createEvent(t, h, urgentEventBody)

	ev := loadEventByID(t, id)
	assert.Equal(t, models.StatusPendingUrgent, ev.Status)

	rec, err := approveEvent(t, h, id, "ผู้จัดการหนึ่ง", "เซ็นเอง")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)

	ev = loadEventByID(t, id)
	assert.Equal(t, models.StatusAwaitingSecond, ev.Status)
	assert.Equal(t, "ผู้จัดการหนึ่ง", ev.FirstApproval.ApprovedBy)
	assert.False(t, ev.SecondApproval.Present())

	// ครั้งแรกยังไม่บวกตัวนับ
	var n int64
	require.NoError(t, database.DB.Model(&models.WorkerCount{}).Count(&n).Error)
	assert.Zero(t, n)

	rec, err = approveEvent(t, h, id, "ผู้จัดการสอง", "เซ็นแทน")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)

	ev = loadEventByID(t, id)
	assert.Equal(t, models.StatusApprovedUrgent, ev.Status)
	assert.Equal(t, "ผู้จัดการหนึ่ง", ev.FirstApproval.ApprovedBy)
	assert.Equal(t, "ผู้จัดการสอง", ev.SecondApproval.ApprovedBy)

	var wc models.WorkerCount
	require.NoError(t, database.DB.First(&wc, "name = ?", "สมชาย").Error)
	assert.EqualValues(t, 1, wc.Count)

	// อนุมัติครั้งที่สามต้องโดนปฏิเสธ
	_, err = approveEvent(t, h, id, "ผู้จัดการสาม", "เซ็นเอง")
	he := httpErr(t, err)
	assert.Equal(t, http.StatusConflict, he.Code)
	assert.Equal(t, "INVALID_STATE", errCode(t, he))
}

func TestNormalJobSingleApproval(t *testing.T) {
	setupDB(t)
	h := NewEventHandler()
	id := createEvent(t, h, normalEventBody)

	rec, err := approveEvent(t, h, id, "ผู้จัดการ", "เซ็นเอง")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)

	ev := loadEventByID(t, id)
	assert.Equal(t, models.StatusApproved, ev.Status)
	assert.Equal(t, "ผู้จัดการ", ev.ApprovedBy)
	assert.False(t, ev.FirstApproval.Present())

	var wc models.WorkerCount
	require.NoError(t, database.DB.First(&wc, "name = ?", "สมชาย").Error)
	assert.EqualValues(t, 1, wc.Count)
}

func TestApproveRequiresSignType(t *testing.T) {
	setupDB(t)
	h := NewEventHandler()
	id := createEvent(t, h, normalEventBody)

	c, _ := testCtx(http.MethodPost, "/events/:id/approve", `{}`, "ผู้จัดการ", models.PositionManager)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(id))

	he := httpErr(t, h.Approve(c))
	assert.Equal(t, http.StatusBadRequest, he.Code)
	assert.Equal(t, "SIGN_TYPE_REQUIRED", errCode(t, he))
}

func TestRejectIsTerminal(t *testing.T) {
	setupDB(t)
	h := NewEventHandler()
	id := createEvent(t, h, normalEventBody)

	c, rec := testCtx(http.MethodPost, "/events/:id/reject", "", "ผู้จัดการ", models.PositionManager)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(id))
	require.NoError(t, h.Reject(c))
	require.Equal(t, http.StatusOK, rec.Code)

	ev := loadEventByID(t, id)
	assert.Equal(t, models.StatusRejected, ev.Status)
	assert.Equal(t, "ผู้จัดการ", ev.RejectedBy)

	// ปฏิเสธแล้วอนุมัติต่อไม่ได้
	_, err := approveEvent(t, h, id, "ผู้จัดการ", "เซ็นเอง")
	he := httpErr(t, err)
	assert.Equal(t, http.StatusConflict, he.Code)

	// ปิดงานก็ไม่ได้
	c, _ = testCtx(http.MethodPost, "/events/:id/complete", "", "สมชาย", models.PositionEngineer)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(id))
	he = httpErr(t, h.Complete(c))
	assert.Equal(t, http.StatusConflict, he.Code)
}

func TestDuplicateJobNumberRejected(t *testing.T) {
	setupDB(t)
	h := NewEventHandler()
	createEvent(t, h, normalEventBody)

	c, _ := testCtx(http.MethodPost, "/events", normalEventBody, "ผู้สั่งงาน", models.PositionEngineer)
	he := httpErr(t, h.Create(c))
	assert.Equal(t, http.StatusConflict, he.Code)
	assert.Equal(t, "DUPLICATE_JOB_NUMBER", errCode(t, he))
}

func TestCreateValidation(t *testing.T) {
	setupDB(t)
	h := NewEventHandler()

	c, _ := testCtx(http.MethodPost, "/events",
		`{"jobNumber":"J-1","start":"2025-05-10","end":"2025-05-09","phoneNumber":"abc"}`,
		"ผู้สั่งงาน", models.PositionEngineer)
	he := httpErr(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, he.Code)
	assert.Equal(t, "VALIDATION_ERROR", errCode(t, he))

	m := he.Message.(map[string]any)
	fields := m["fields"].(map[string]string)
	assert.Contains(t, fields, "end")
	assert.Contains(t, fields, "phoneNumber")
}

func TestUpdateLockedAfterApproval(t *testing.T) {
	setupDB(t)
	h := NewEventHandler()
	id := createEvent(t, h, normalEventBody)

	_, err := approveEvent(t, h, id, "ผู้จัดการ", "เซ็นเอง")
	require.NoError(t, err)

	c, _ := testCtx(http.MethodPut, "/events/:id", normalEventBody, "ผู้สั่งงาน", models.PositionEngineer)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(id))
	he := httpErr(t, h.Update(c))
	assert.Equal(t, http.StatusConflict, he.Code)
	assert.Equal(t, "INVALID_STATE", errCode(t, he))

	// ลบก็ไม่ได้เช่นกัน
	c, _ = testCtx(http.MethodDelete, "/events/:id", "", "ผู้สั่งงาน", models.PositionEngineer)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(id))
	he = httpErr(t, h.Delete(c))
	assert.Equal(t, http.StatusConflict, he.Code)
}

func TestUpdateResetsStatusByUrgency(t *testing.T) {
	setupDB(t)
	h := NewEventHandler()
	id := createEvent(t, h, normalEventBody)

	// ส่งฟอร์มซ้ำเปลี่ยนเป็นงานด่วน → สถานะกลับไปรออนุมัติด่วน
	c, rec := testCtx(http.MethodPut, "/events/:id", `{
		"jobNumber": "J-100",
		"location": "อาคาร 1",
		"start": "2025-05-01",
		"end": "2025-05-02",
		"workers": ["สมชาย"],
		"isUrgent": true
	}`, "ผู้สั่งงาน", models.PositionEngineer)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(id))
	require.NoError(t, h.Update(c))
	require.Equal(t, http.StatusOK, rec.Code)

	ev := loadEventByID(t, id)
	assert.Equal(t, models.StatusPendingUrgent, ev.Status)
	assert.True(t, ev.IsUrgent)
}

func TestCompleteAndIncompleteGuards(t *testing.T) {
	setupDB(t)
	h := NewEventHandler()
	id := createEvent(t, h, normalEventBody)
	_, err := approveEvent(t, h, id, "ผู้จัดการ", "เซ็นเอง")
	require.NoError(t, err)

	// คนนอกรายชื่อปิดงานไม่ได้
	c, _ := testCtx(http.MethodPost, "/events/:id/complete", "", "คนอื่น", models.PositionEngineer)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(id))
	he := httpErr(t, h.Complete(c))
	assert.Equal(t, http.StatusForbidden, he.Code)
	assert.Equal(t, "NOT_WORKER", errCode(t, he))

	// ไม่เรียบร้อยต้องมีเหตุผล
	c, _ = testCtx(http.MethodPost, "/events/:id/incomplete", `{"reason":"  "}`, "สมชาย", models.PositionEngineer)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(id))
	he = httpErr(t, h.Incomplete(c))
	assert.Equal(t, http.StatusBadRequest, he.Code)
	assert.Equal(t, "REASON_REQUIRED", errCode(t, he))

	// ผู้ปฏิบัติงานตัวจริงปิดงานได้
	c, rec := testCtx(http.MethodPost, "/events/:id/complete", "", "สมชาย", models.PositionEngineer)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(id))
	require.NoError(t, h.Complete(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StatusCompleted, loadEventByID(t, id).Status)
}

func TestAcknowledgeEndpointIdempotent(t *testing.T) {
	setupDB(t)
	h := NewEventHandler()
	id := createEvent(t, h, normalEventBody)
	_, err := approveEvent(t, h, id, "ผู้จัดการ", "เซ็นเอง")
	require.NoError(t, err)

	ack := func(actor string) (echoResult *httptest.ResponseRecorder, err error) {
		c, rec := testCtx(http.MethodPost, "/events/:id/acknowledge", "", actor, models.PositionEngineer)
		c.SetParamNames("id")
		c.SetParamValues(fmt.Sprint(id))
		return rec, h.Acknowledge(c)
	}

	rec, err := ack("สมชาย")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Acknowledged   bool     `json:"acknowledged"`
		AcknowledgedBy []string `json:"acknowledgedBy"`
	}
	decodeBody(t, rec, &resp)
	assert.True(t, resp.Acknowledged)
	assert.Equal(t, []string{"สมชาย"}, resp.AcknowledgedBy)

	// กดซ้ำ → 200 พร้อม already ไม่ใช่ error และรายชื่อไม่งอก
	rec, err = ack("สมชาย")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)
	var again struct {
		Already bool `json:"already"`
	}
	decodeBody(t, rec, &again)
	assert.True(t, again.Already)

	ev := loadEventByID(t, id)
	assert.Len(t, []string(ev.AcknowledgedBy), 1)
	assert.True(t, ev.Acknowledged)
}

func TestListManagerQueueOrdering(t *testing.T) {
	setupDB(t)
	h := NewEventHandler()

	normalID := createEvent(t, h, normalEventBody)
	urgentID := createEvent(t, h, urgentEventBody)

	// งานด่วนอีกใบที่ผ่านการอนุมัติครั้งแรกแล้ว
	thirdBody := `{
		"jobNumber": "J-300",
		"location": "อาคาร 3",
		"start": "2025-05-05",
		"end": "2025-05-05",
		"workers": ["สมหญิง"],
		"isUrgent": true
	}`
	awaitingID := createEvent(t, h, thirdBody)
	_, err := approveEvent(t, h, awaitingID, "ผู้จัดการ", "เซ็นเอง")
	require.NoError(t, err)

	// งานที่อนุมัติจบแล้วต้องหายจากคิวผู้จัดการ
	doneBody := `{
		"jobNumber": "J-400",
		"location": "อาคาร 4",
		"start": "2025-05-06",
		"end": "2025-05-06",
		"workers": ["สมหญิง"],
		"isUrgent": false
	}`
	doneID := createEvent(t, h, doneBody)
	_, err = approveEvent(t, h, doneID, "ผู้จัดการ", "เซ็นเอง")
	require.NoError(t, err)

	c, rec := testCtx(http.MethodGet, "/events?queue=manager", "", "ผู้จัดการ", models.PositionManager)
	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []models.Event
	decodeBody(t, rec, &rows)
	require.Len(t, rows, 3)
	// รอครั้งที่ 2 มาก่อน ตามด้วยงานด่วน แล้วงานปกติ
	assert.Equal(t, awaitingID, rows[0].ID)
	assert.Equal(t, urgentID, rows[1].ID)
	assert.Equal(t, normalID, rows[2].ID)
}

func TestAvailabilityEndpoint(t *testing.T) {
	setupDB(t)
	h := NewEventHandler()

	require.NoError(t, database.DB.Create(&models.Leave{
		Name: "สมชาย", StartDate: "2025-01-10", EndDate: "2025-01-12",
	}).Error)

	check := func(query string) (*httptest.ResponseRecorder, error) {
		c, rec := testCtx(http.MethodGet, "/events/availability?"+query, "", "ผู้สั่งงาน", models.PositionEngineer)
		return rec, h.Availability(c)
	}

	rec, err := check("worker=สมชาย&start=2025-01-11&end=2025-01-11")
	require.NoError(t, err)
	var resp struct {
		Available bool `json:"available"`
	}
	decodeBody(t, rec, &resp)
	assert.False(t, resp.Available)

	rec, err = check("worker=สมชาย&start=2025-01-13&end=2025-01-14")
	require.NoError(t, err)
	decodeBody(t, rec, &resp)
	assert.True(t, resp.Available)

	// ช่วงวันที่เสียรูปแบบ → 400
	_, err = check("worker=สมชาย&start=11/01/2025&end=2025-01-11")
	he := httpErr(t, err)
	assert.Equal(t, http.StatusBadRequest, he.Code)

	// ไม่ส่งชื่อ → 400
	_, err = check("start=2025-01-11&end=2025-01-11")
	he = httpErr(t, err)
	assert.Equal(t, "WORKER_REQUIRED", errCode(t, he))
}
