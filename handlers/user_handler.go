package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/thanaphatj/WOSystem/database"
	"github.com/thanaphatj/WOSystem/lifecycle"
	"github.com/thanaphatj/WOSystem/models"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler { return &UserHandler{} }

var validPositions = map[string]bool{
	models.PositionEngineer:     true,
	models.PositionSales:        true,
	models.PositionManager:      true,
	models.PositionManagerSales: true,
	models.PositionAdmin:        true,
}

var validWorkgroups = map[string]bool{
	"workers": true, "headworkers": true, "assigners": true, "assigner": true,
}

type userPayload struct {
	Name     string `json:"name"`
	UserID   string `json:"userId"`
	Password string `json:"password"`
	Position string `json:"position"`

	// ข้อมูลเดิมส่ง field นี้มาได้สามชื่อ: workgroup / status / stutus (สะกดผิด)
	// normalize ที่นี่จุดเดียว ไม่เช็คสองแบบกระจายตามโค้ด
	Workgroup string `json:"workgroup"`
	Status    string `json:"status"`
	Stutus    string `json:"stutus"`
}

func (p *userPayload) workgroup() string {
	for _, v := range []string{p.Workgroup, p.Status, p.Stutus} {
		if w := strings.ToLower(strings.TrimSpace(v)); w != "" {
			return w
		}
	}
	return ""
}

func validateUser(p *userPayload, requirePassword bool) map[string]string {
	fields := map[string]string{}
	if lifecycle.NormalizeName(p.Name) == "" {
		fields["name"] = "กรุณากรอกชื่อ"
	}
	if strings.TrimSpace(p.UserID) == "" {
		fields["userId"] = "กรุณากรอกรหัสพนักงาน"
	}
	if requirePassword && strings.TrimSpace(p.Password) == "" {
		fields["password"] = "กรุณากรอกรหัสผ่าน"
	}
	if !validPositions[strings.ToLower(strings.TrimSpace(p.Position))] {
		fields["position"] = "ตำแหน่งต้องเป็น engineer/sales/manager/managersales/admin"
	}
	if w := p.workgroup(); w != "" && !validWorkgroups[w] {
		fields["workgroup"] = "กลุ่มงานต้องเป็น workers/headworkers/assigners/assigner"
	}
	return fields
}

// GET /admin/users
func (h *UserHandler) List(c echo.Context) error {
	var rows []models.User
	if err := database.DB.Order("name ASC").Find(&rows).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, rows)
}

// POST /admin/users
func (h *UserHandler) Create(c echo.Context) error {
	var p userPayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if fields := validateUser(&p, true); len(fields) > 0 {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": fields})
	}

	userID := strings.TrimSpace(p.UserID)
	var dup models.User
	if err := database.DB.Where("LOWER(user_id) = LOWER(?)", userID).First(&dup).Error; err == nil {
		return echo.NewHTTPError(http.StatusConflict, map[string]any{"error": "USER_ID_EXISTS"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(p.Password)), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "HASH_FAILED"})
	}

	u := models.User{
		Name:      lifecycle.NormalizeName(p.Name),
		UserID:    userID,
		Password:  string(hash),
		Position:  strings.ToLower(strings.TrimSpace(p.Position)),
		Workgroup: p.workgroup(),
	}
	if err := database.DB.Create(&u).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, map[string]any{"id": u.ID})
}

// PUT /admin/users/:id — ส่งเฉพาะ field ที่ต้องการแก้
func (h *UserHandler) Update(c echo.Context) error {
	if _, err := mustID(c); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	var u models.User
	if err := database.DB.First(&u, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}

	var p userPayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}

	if name := lifecycle.NormalizeName(p.Name); name != "" {
		u.Name = name
	}
	if pos := strings.ToLower(strings.TrimSpace(p.Position)); pos != "" {
		if !validPositions[pos] {
			return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_POSITION"})
		}
		u.Position = pos
	}
	if w := p.workgroup(); w != "" {
		if !validWorkgroups[w] {
			return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_WORKGROUP"})
		}
		u.Workgroup = w
	}
	if pw := strings.TrimSpace(p.Password); pw != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "HASH_FAILED"})
		}
		u.Password = string(hash)
	}

	if err := database.DB.Save(&u).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, u)
}

// DELETE /admin/users/:id
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := mustID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	tx := database.DB.Delete(&models.User{}, "id = ?", id)
	if tx.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_DELETE_FAILED"})
	}
	if tx.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	}
	return c.NoContent(http.StatusNoContent)
}

// GET /users/workgroups — รายชื่อสำหรับ dropdown เลือกผู้ปฏิบัติงาน/ผู้สั่งงาน
func (h *UserHandler) Workgroups(c echo.Context) error {
	var rows []models.User
	if err := database.DB.Order("name ASC").Find(&rows).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}

	workers := []string{}
	assigners := []string{}
	for _, u := range rows {
		switch strings.ToLower(strings.TrimSpace(u.Workgroup)) {
		case "workers", "headworkers":
			workers = append(workers, u.Name)
		case "assigners", "assigner":
			assigners = append(assigners, u.Name)
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"workers":   workers,
		"assigners": assigners,
	})
}
