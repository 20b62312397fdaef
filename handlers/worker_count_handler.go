package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/thanaphatj/WOSystem/database"
	"github.com/thanaphatj/WOSystem/models"
)

type WorkerCountHandler struct{}

func NewWorkerCountHandler() *WorkerCountHandler { return &WorkerCountHandler{} }

// GET /worker-counts — ยอดสะสมงานที่อนุมัติแล้วต่อผู้ปฏิบัติงาน
func (h *WorkerCountHandler) List(c echo.Context) error {
	var rows []models.WorkerCount
	if err := database.DB.Order("count DESC, name ASC").Find(&rows).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, rows)
}
