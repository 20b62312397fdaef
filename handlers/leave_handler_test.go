package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thanaphatj/WOSystem/database"
	"github.com/thanaphatj/WOSystem/models"
)

func createLeave(t *testing.T, h *LeaveHandler, body, actor, position string) uint {
	t.Helper()
	c, rec := testCtx(http.MethodPost, "/leaves", body, actor, position)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		ID uint `json:"id"`
	}
	decodeBody(t, rec, &resp)
	return resp.ID
}

func TestLeaveCreateForcedToOwnName(t *testing.T) {
	setupDB(t)
	h := NewLeaveHandler()

	// คนทั่วไปแอบลงชื่อคนอื่นไม่ได้ ระบบบังคับเป็นชื่อตัวเอง
	id := createLeave(t, h, `{"name":"คนอื่น","start":"2025-06-01","end":"2025-06-02"}`,
		"สมชาย", models.PositionEngineer)

	var lv models.Leave
	require.NoError(t, database.DB.First(&lv, id).Error)
	assert.Equal(t, "สมชาย", lv.Name)

	// admin ลงแทนใครก็ได้
	id = createLeave(t, h, `{"name":"สมหญิง","start":"2025-06-03","end":"2025-06-03"}`,
		"แอดมิน", models.PositionAdmin)
	lv = models.Leave{}
	require.NoError(t, database.DB.First(&lv, id).Error)
	assert.Equal(t, "สมหญิง", lv.Name)
}

func TestLeaveValidation(t *testing.T) {
	setupDB(t)
	h := NewLeaveHandler()

	c, _ := testCtx(http.MethodPost, "/leaves",
		`{"start":"2025-06-05","end":"2025-06-01"}`, "สมชาย", models.PositionEngineer)
	he := httpErr(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, he.Code)
	assert.Equal(t, "VALIDATION_ERROR", errCode(t, he))
}

func TestLeaveOwnerOrAdminOnly(t *testing.T) {
	setupDB(t)
	h := NewLeaveHandler()
	id := createLeave(t, h, `{"start":"2025-06-01","end":"2025-06-02"}`,
		"สมชาย", models.PositionEngineer)

	upd := `{"start":"2025-06-01","end":"2025-06-03","reason":"ธุระส่วนตัว"}`

	// คนอื่นแก้ไม่ได้
	c, _ := testCtx(http.MethodPut, "/leaves/:id", upd, "สมหญิง", models.PositionEngineer)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(id))
	he := httpErr(t, h.Update(c))
	assert.Equal(t, http.StatusForbidden, he.Code)

	// เจ้าของแก้ได้
	c, rec := testCtx(http.MethodPut, "/leaves/:id", upd, "สมชาย", models.PositionEngineer)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(id))
	require.NoError(t, h.Update(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var lv models.Leave
	require.NoError(t, database.DB.First(&lv, id).Error)
	assert.Equal(t, "2025-06-03", lv.EndDate)
	assert.Equal(t, "ธุระส่วนตัว", lv.Reason)

	// admin ลบได้
	c, rec = testCtx(http.MethodDelete, "/leaves/:id", "", "แอดมิน", models.PositionAdmin)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(id))
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestLeaveListFilterByName(t *testing.T) {
	setupDB(t)
	h := NewLeaveHandler()
	createLeave(t, h, `{"start":"2025-06-01","end":"2025-06-02"}`, "สมชาย", models.PositionEngineer)
	createLeave(t, h, `{"start":"2025-06-01","end":"2025-06-02"}`, "สมหญิง", models.PositionEngineer)

	c, rec := testCtx(http.MethodGet, "/leaves?name=สมชาย", "", "สมชาย", models.PositionEngineer)
	require.NoError(t, h.List(c))

	var rows []models.Leave
	decodeBody(t, rec, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "สมชาย", rows[0].Name)
}
