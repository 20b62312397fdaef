package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"

	"github.com/thanaphatj/WOSystem/database"
	"github.com/thanaphatj/WOSystem/models"
)

type ExportHandler struct{}

func NewExportHandler() *ExportHandler { return &ExportHandler{} }

// คอลัมน์หลักของรายงานสรุป สถานะอื่นที่โผล่มาต่อท้ายเรียงตามตัวอักษร
var summaryMainStatuses = []string{
	string(models.StatusCompleted),
	string(models.StatusIncomplete),
	string(models.StatusPending),
	string(models.StatusApproved),
}

type summaryRow struct {
	Name     string
	Total    int
	ByStatus map[string]int
}

type summary struct {
	Statuses     []string
	Rows         []summaryRow
	TotalEvents  int
	StatusTotals map[string]int
}

// buildSummary นับจำนวนงานต่อผู้ปฏิบัติงานต่อสถานะ ช่วง [start, end)
// นับจากวันเริ่มงาน งานที่วันเริ่มเสียรูปแบบถูกข้าม
// seedWorkers ใส่ชื่อที่อยากให้ติดตารางแม้ยอดเป็นศูนย์
func buildSummary(events []models.Event, seedWorkers []string, start, end time.Time) *summary {
	statusSet := map[string]bool{}
	for _, s := range summaryMainStatuses {
		statusSet[s] = true
	}
	var others []string
	for _, ev := range events {
		s := strings.TrimSpace(string(ev.Status))
		if s != "" && !statusSet[s] {
			statusSet[s] = true
			others = append(others, s)
		}
	}
	sort.Strings(others)
	statuses := append(append([]string{}, summaryMainStatuses...), others...)

	stats := map[string]*summaryRow{}
	ensure := func(name string) *summaryRow {
		if name == "" {
			return nil
		}
		if r, ok := stats[name]; ok {
			return r
		}
		r := &summaryRow{Name: name, ByStatus: map[string]int{}}
		stats[name] = r
		return r
	}

	for _, w := range seedWorkers {
		ensure(strings.TrimSpace(w))
	}

	totalEvents := 0
	statusTotals := map[string]int{}
	for _, ev := range events {
		startDate, err := time.Parse("2006-01-02", ev.StartDate)
		if err != nil {
			continue
		}
		if startDate.Before(start) || !startDate.Before(end) {
			continue
		}

		totalEvents++
		s := strings.TrimSpace(string(ev.Status))
		if s != "" {
			statusTotals[s]++
		}

		for _, w := range ev.Workers {
			r := ensure(strings.TrimSpace(w))
			if r == nil {
				continue
			}
			r.Total++
			if s != "" {
				r.ByStatus[s]++
			}
		}
	}

	rows := lo.MapToSlice(stats, func(_ string, r *summaryRow) summaryRow { return *r })
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })

	return &summary{
		Statuses:     statuses,
		Rows:         rows,
		TotalEvents:  totalEvents,
		StatusTotals: statusTotals,
	}
}

func parseMonth(s string) (time.Time, bool) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	return t, err == nil
}

// GET /export/summary?start=YYYY-MM&end=YYYY-MM&format=csv|xlsx&includeZero=true
func (h *ExportHandler) Summary(c echo.Context) error {
	start, ok := parseMonth(c.QueryParam("start"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR",
			"fields": map[string]string{"start": "ต้องเป็น YYYY-MM"}})
	}
	endMonth, ok := parseMonth(c.QueryParam("end"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR",
			"fields": map[string]string{"end": "ต้องเป็น YYYY-MM"}})
	}
	end := endMonth.AddDate(0, 1, 0) // รวมเดือนสุดท้ายทั้งเดือน
	if !start.Before(end) {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_MONTH_RANGE"})
	}

	var events []models.Event
	if err := database.DB.Find(&events).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}

	var seed []string
	if c.QueryParam("includeZero") == "true" {
		var users []models.User
		if err := database.DB.Where("workgroup IN ?", []string{"workers", "headworkers"}).Find(&users).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
		}
		seed = lo.Map(users, func(u models.User, _ int) string { return u.Name })
	}

	sum := buildSummary(events, seed, start, end)
	rangeLabel := c.QueryParam("start") + " ถึง " + c.QueryParam("end")

	if c.QueryParam("format") == "xlsx" {
		return h.writeXLSX(c, sum, rangeLabel)
	}
	return h.writeCSV(c, sum, rangeLabel)
}

func summaryHeader(sum *summary) []string {
	header := []string{"ช่วงเดือน", "ชื่อผู้ปฏิบัติงาน", "จำนวนครั้งทั้งหมด"}
	return append(header, sum.Statuses...)
}

func (h *ExportHandler) writeCSV(c echo.Context, sum *summary, rangeLabel string) error {
	var buf bytes.Buffer
	buf.WriteString("\uFEFF") // BOM ให้ Excel เปิดภาษาไทยถูก

	w := csv.NewWriter(&buf)
	_ = w.Write(summaryHeader(sum))

	for _, r := range sum.Rows {
		rec := []string{rangeLabel, r.Name, strconv.Itoa(r.Total)}
		for _, s := range sum.Statuses {
			rec = append(rec, strconv.Itoa(r.ByStatus[s]))
		}
		_ = w.Write(rec)
	}

	totalRec := []string{"รวมทั้งหมด", "", strconv.Itoa(sum.TotalEvents)}
	for _, s := range sum.Statuses {
		totalRec = append(totalRec, strconv.Itoa(sum.StatusTotals[s]))
	}
	_ = w.Write(totalRec)
	w.Flush()
	if err := w.Error(); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "EXPORT_FAILED"})
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="worker-summary-%s.csv"`, time.Now().Format("20060102")))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *ExportHandler) writeXLSX(c echo.Context, sum *summary, rangeLabel string) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "สรุปผลรวม"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "EXPORT_FAILED"})
	}

	header := lo.Map(summaryHeader(sum), func(s string, _ int) any { return s })
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "EXPORT_FAILED"})
	}

	rowIdx := 2
	for _, r := range sum.Rows {
		row := []any{rangeLabel, r.Name, r.Total}
		for _, s := range sum.Statuses {
			row = append(row, r.ByStatus[s])
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", rowIdx), &row); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "EXPORT_FAILED"})
		}
		rowIdx++
	}

	totalRow := []any{"รวมทั้งหมด", "", sum.TotalEvents}
	for _, s := range sum.Statuses {
		totalRow = append(totalRow, sum.StatusTotals[s])
	}
	if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", rowIdx), &totalRow); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "EXPORT_FAILED"})
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="worker-summary-%s.xlsx"`, time.Now().Format("20060102")))
	c.Response().Header().Set(echo.HeaderContentType,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().WriteHeader(http.StatusOK)
	return f.Write(c.Response())
}
