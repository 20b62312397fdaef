package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/thanaphatj/WOSystem/database"
	"github.com/thanaphatj/WOSystem/models"
)

type ReportHandler struct{}

func NewReportHandler() *ReportHandler { return &ReportHandler{} }

var validReportTypes = map[string]bool{
	models.ReportTypeGeneral:    true,
	models.ReportTypeExhibition: true,
	models.ReportTypeService:    true,
	models.ReportTypeTraining:   true,
}

func reportKey(c echo.Context) (reportType, jobNumber string, err error) {
	reportType = strings.TrimSpace(c.Param("type"))
	jobNumber = strings.TrimSpace(c.Param("jobNumber"))
	if !validReportTypes[reportType] {
		return "", "", echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "UNKNOWN_REPORT_TYPE"})
	}
	if jobNumber == "" {
		return "", "", echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "JOB_NUMBER_REQUIRED"})
	}
	return reportType, jobNumber, nil
}

// PUT /reports/:type/:jobNumber — payload อิสระตามฟอร์มแต่ละแบบ เขียนทับทั้งก้อน
func (h *ReportHandler) Put(c echo.Context) error {
	reportType, jobNumber, err := reportKey(c)
	if err != nil {
		return err
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil || len(body) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	payload := datatypes.JSON(body)

	var rec models.Report
	err = database.DB.Where("job_number = ? AND report_type = ?", jobNumber, reportType).First(&rec).Error
	switch {
	case err == nil:
		rec.Payload = payload
		if err := database.DB.Save(&rec).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_UPDATE_FAILED"})
		}
		return c.JSON(http.StatusOK, map[string]any{"id": rec.ID})
	case errors.Is(err, gorm.ErrRecordNotFound):
		rec = models.Report{JobNumber: jobNumber, ReportType: reportType, Payload: payload}
		if err := database.DB.Create(&rec).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_UPDATE_FAILED"})
		}
		return c.JSON(http.StatusCreated, map[string]any{"id": rec.ID})
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
}

// GET /reports/:type/:jobNumber
func (h *ReportHandler) Get(c echo.Context) error {
	reportType, jobNumber, err := reportKey(c)
	if err != nil {
		return err
	}
	var rec models.Report
	if err := database.DB.Where("job_number = ? AND report_type = ?", jobNumber, reportType).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, rec)
}

// DELETE /reports/:type/:jobNumber
func (h *ReportHandler) Delete(c echo.Context) error {
	reportType, jobNumber, err := reportKey(c)
	if err != nil {
		return err
	}
	tx := database.DB.Where("job_number = ? AND report_type = ?", jobNumber, reportType).Delete(&models.Report{})
	if tx.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_DELETE_FAILED"})
	}
	if tx.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	}
	return c.NoContent(http.StatusNoContent)
}
