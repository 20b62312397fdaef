package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/thanaphatj/WOSystem/database"
	"github.com/thanaphatj/WOSystem/lifecycle"
	"github.com/thanaphatj/WOSystem/models"
)

type LeaveHandler struct{}

func NewLeaveHandler() *LeaveHandler { return &LeaveHandler{} }

type leavePayload struct {
	Name    string   `json:"name"`
	Workers []string `json:"workers"`
	Start   string   `json:"start"`
	End     string   `json:"end"`
	Reason  string   `json:"reason"`
	FileURL string   `json:"fileUrl"`
}

func validateLeave(p *leavePayload) map[string]string {
	fields := map[string]string{}
	if !isDateYYYYMMDD(p.Start) {
		fields["start"] = "ต้องเป็น YYYY-MM-DD"
	}
	if !isDateYYYYMMDD(p.End) {
		fields["end"] = "ต้องเป็น YYYY-MM-DD"
	}
	if p.Start != "" && p.End != "" && p.End < p.Start {
		fields["end"] = "ต้องไม่ก่อนวันเริ่มลา"
	}
	return fields
}

// เจ้าของวันลา (ชื่อตรง) หรือ admin เท่านั้นที่แก้/ลบได้
func canTouchLeave(c echo.Context, lv *models.Leave) bool {
	if isAdmin(c) {
		return true
	}
	return lifecycle.NormalizeName(lv.Name) == lifecycle.NormalizeName(actorName(c))
}

// GET /leaves?name=
func (h *LeaveHandler) List(c echo.Context) error {
	tx := database.DB.Model(&models.Leave{})
	if name := strings.TrimSpace(c.QueryParam("name")); name != "" {
		tx = tx.Where("name = ?", name)
	}
	var rows []models.Leave
	if err := tx.Order("start_date DESC, id DESC").Find(&rows).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, rows)
}

// POST /leaves — คนทั่วไปลาในชื่อตัวเองเท่านั้น admin ลงแทนใครก็ได้
func (h *LeaveHandler) Create(c echo.Context) error {
	var p leavePayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}

	name := lifecycle.NormalizeName(p.Name)
	if name == "" || !isAdmin(c) {
		name = lifecycle.NormalizeName(actorName(c))
	}
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "NAME_REQUIRED"})
	}

	if fields := validateLeave(&p); len(fields) > 0 {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": fields})
	}

	lv := models.Leave{
		Name:      name,
		Workers:   datatypes.NewJSONSlice(cleanNames(p.Workers)),
		StartDate: p.Start,
		EndDate:   p.End,
		Reason:    strings.TrimSpace(p.Reason),
		FileURL:   strings.TrimSpace(p.FileURL),
	}
	if err := database.DB.Create(&lv).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, map[string]any{"id": lv.ID})
}

// PUT /leaves/:id
func (h *LeaveHandler) Update(c echo.Context) error {
	if _, err := mustID(c); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	var lv models.Leave
	if err := database.DB.First(&lv, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	if !canTouchLeave(c, &lv) {
		return echo.NewHTTPError(http.StatusForbidden, map[string]any{"error": "FORBIDDEN"})
	}

	var p leavePayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if fields := validateLeave(&p); len(fields) > 0 {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": fields})
	}

	lv.StartDate = p.Start
	lv.EndDate = p.End
	lv.Reason = strings.TrimSpace(p.Reason)
	if p.FileURL != "" {
		lv.FileURL = strings.TrimSpace(p.FileURL)
	}
	if isAdmin(c) && lifecycle.NormalizeName(p.Name) != "" {
		lv.Name = lifecycle.NormalizeName(p.Name)
	}

	if err := database.DB.Save(&lv).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, lv)
}

// DELETE /leaves/:id
func (h *LeaveHandler) Delete(c echo.Context) error {
	if _, err := mustID(c); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	var lv models.Leave
	if err := database.DB.First(&lv, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	if !canTouchLeave(c, &lv) {
		return echo.NewHTTPError(http.StatusForbidden, map[string]any{"error": "FORBIDDEN"})
	}
	if err := database.DB.Delete(&lv).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_DELETE_FAILED"})
	}
	return c.NoContent(http.StatusNoContent)
}
