package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/thanaphatj/WOSystem/database"
	"github.com/thanaphatj/WOSystem/models"
)

type HolidayHandler struct{}

func NewHolidayHandler() *HolidayHandler { return &HolidayHandler{} }

// GET /holidays
func (h *HolidayHandler) List(c echo.Context) error {
	var rows []models.Holiday
	if err := database.DB.Order("date ASC").Find(&rows).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, rows)
}

// POST /holidays (admin)
func (h *HolidayHandler) Create(c echo.Context) error {
	var v models.Holiday
	if err := c.Bind(&v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	v.Name = strings.TrimSpace(v.Name)

	fields := map[string]string{}
	if v.Name == "" {
		fields["name"] = "กรุณากรอกชื่อวันหยุด"
	}
	if !isDateYYYYMMDD(v.Date) {
		fields["date"] = "ต้องเป็น YYYY-MM-DD"
	}
	if len(fields) > 0 {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": fields})
	}

	if err := database.DB.Create(&v).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, map[string]any{"id": v.ID})
}

// DELETE /holidays/:id (admin)
func (h *HolidayHandler) Delete(c echo.Context) error {
	id, err := mustID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	tx := database.DB.Delete(&models.Holiday{}, "id = ?", id)
	if tx.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_DELETE_FAILED"})
	}
	if tx.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	}
	return c.NoContent(http.StatusNoContent)
}
