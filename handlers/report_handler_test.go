package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thanaphatj/WOSystem/models"
)

func reportCtx(method, body, reportType, jobNumber, actor string) (echo.Context, *httptest.ResponseRecorder) {
	c, rec := testCtx(method, "/reports/:type/:jobNumber", body, actor, models.PositionEngineer)
	c.SetParamNames("type", "jobNumber")
	c.SetParamValues(reportType, jobNumber)
	return c, rec
}

func TestReportPutGetDeleteRoundTrip(t *testing.T) {
	setupDB(t)
	h := NewReportHandler()

	body := `{"customer":"บริษัท ก","symptom":"เครื่องไม่ติด"}`

	c, rec := reportCtx(http.MethodPut, body, models.ReportTypeGeneral, "J-100", "สมชาย")
	require.NoError(t, h.Put(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	// เขียนทับก้อนเดิม → 200 ไม่ใช่สร้างแถวใหม่
	c, rec = reportCtx(http.MethodPut, `{"customer":"บริษัท ข"}`, models.ReportTypeGeneral, "J-100", "สมชาย")
	require.NoError(t, h.Put(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = reportCtx(http.MethodGet, "", models.ReportTypeGeneral, "J-100", "สมชาย")
	require.NoError(t, h.Get(c))
	assert.Contains(t, rec.Body.String(), "บริษัท ข")
	assert.NotContains(t, rec.Body.String(), "บริษัท ก")

	// คนละประเภทรายงานคือคนละก้อน
	c, _ = reportCtx(http.MethodGet, "", models.ReportTypeTraining, "J-100", "สมชาย")
	he := httpErr(t, h.Get(c))
	assert.Equal(t, http.StatusNotFound, he.Code)

	c, rec = reportCtx(http.MethodDelete, "", models.ReportTypeGeneral, "J-100", "สมชาย")
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	c, _ = reportCtx(http.MethodGet, "", models.ReportTypeGeneral, "J-100", "สมชาย")
	he = httpErr(t, h.Get(c))
	assert.Equal(t, http.StatusNotFound, he.Code)
}

func TestReportUnknownTypeRejected(t *testing.T) {
	setupDB(t)
	h := NewReportHandler()

	c, _ := reportCtx(http.MethodPut, `{"a":1}`, "report99", "J-100", "สมชาย")
	he := httpErr(t, h.Put(c))
	assert.Equal(t, http.StatusNotFound, he.Code)
	assert.Equal(t, "UNKNOWN_REPORT_TYPE", errCode(t, he))
}

func TestReportEmptyBodyRejected(t *testing.T) {
	setupDB(t)
	h := NewReportHandler()

	c, _ := reportCtx(http.MethodPut, "", models.ReportTypeGeneral, "J-100", "สมชาย")
	he := httpErr(t, h.Put(c))
	assert.Equal(t, http.StatusBadRequest, he.Code)
}
