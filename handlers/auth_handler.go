package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/thanaphatj/WOSystem/database"
	"github.com/thanaphatj/WOSystem/models"
)

type AuthHandler struct {
	JWTSecret string
}

func NewAuthHandler(secret string) *AuthHandler {
	if secret == "" {
		secret = "dev-secret" // กันล่มในเครื่อง dev (โปรดตั้งใน .env จริง)
	}
	return &AuthHandler{JWTSecret: secret}
}

func (h *AuthHandler) signJWT(u *models.User, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":      u.ID,
		"userId":   u.UserID,
		"name":     u.Name,
		"position": u.Position,
		"exp":      time.Now().Add(ttl).Unix(),
		"iat":      time.Now().Unix(),
	}
	tk := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tk.SignedString([]byte(h.JWTSecret))
}

type LoginReq struct {
	UserID   string `json:"userId"`
	Password string `json:"password"`
}

// เดาชื่อ browser/OS คร่าว ๆ จาก User-Agent ไว้ลงใน login log
func deviceInfo(userAgent string) (browser, osName string) {
	browser, osName = "Unknown", "Unknown"
	switch {
	case strings.Contains(userAgent, "Firefox"):
		browser = "Firefox"
	case strings.Contains(userAgent, "Edg"):
		browser = "Edge"
	case strings.Contains(userAgent, "Chrome"):
		browser = "Chrome"
	case strings.Contains(userAgent, "Safari"):
		browser = "Safari"
	}
	switch {
	case strings.Contains(userAgent, "Win"):
		osName = "Windows"
	case strings.Contains(userAgent, "Android"):
		osName = "Android"
	case strings.Contains(userAgent, "iPhone"), strings.Contains(userAgent, "iPad"):
		osName = "iOS"
	case strings.Contains(userAgent, "Mac"):
		osName = "MacOS"
	case strings.Contains(userAgent, "Linux"):
		osName = "Linux"
	}
	return
}

// บันทึก log ทั้งกรณีสำเร็จและล้มเหลว แบบ best-effort ไม่ให้ล้ม login
func (h *AuthHandler) saveLoginLog(c echo.Context, userID, userName, position, status string) {
	ua := c.Request().UserAgent()
	browser, osName := deviceInfo(ua)
	if len(ua) > 300 {
		ua = ua[:300]
	}
	entry := models.LoginLog{
		UserID:    userID,
		UserName:  userName,
		Position:  position,
		Status:    status,
		IPAddress: c.RealIP(),
		Browser:   browser,
		OS:        osName,
		UserAgent: ua,
	}
	if err := database.DB.Create(&entry).Error; err != nil {
		log.Printf("[login] save login log failed: %v", err)
	}
}

// POST /auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}

	userID := strings.TrimSpace(req.UserID)
	if userID == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "MISSING_FIELDS"})
	}

	// รหัสพนักงานเทียบแบบไม่สนตัวพิมพ์ใหญ่-เล็ก (พฤติกรรมเดิมของระบบ)
	var u models.User
	if err := database.DB.Where("LOWER(user_id) = LOWER(?)", userID).First(&u).Error; err != nil {
		h.saveLoginLog(c, userID, "Unknown", "Unknown", "failed")
		return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "INVALID_CREDENTIALS"})
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)) != nil {
		h.saveLoginLog(c, userID, u.Name, u.Position, "failed")
		return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "INVALID_CREDENTIALS"})
	}

	h.saveLoginLog(c, u.UserID, u.Name, u.Position, "success")

	token, err := h.signJWT(&u, 7*24*time.Hour)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "TOKEN_GEN_FAILED"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"token": token,
		"user": map[string]any{
			"id": u.ID, "userId": u.UserID, "name": u.Name,
			"position": u.Position, "workgroup": u.Workgroup,
		},
	})
}

// GET /admin/login-logs?status=&userId=&page=&size=
func (h *AuthHandler) ListLoginLogs(c echo.Context) error {
	page := atoiOr(c.QueryParam("page"), 1)
	size := atoiOr(c.QueryParam("size"), 50)
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 200 {
		size = 50
	}

	tx := database.DB.Model(&models.LoginLog{})
	if s := strings.TrimSpace(c.QueryParam("status")); s != "" {
		tx = tx.Where("status = ?", s)
	}
	if uid := strings.TrimSpace(c.QueryParam("userId")); uid != "" {
		tx = tx.Where("user_id = ?", uid)
	}

	var rows []models.LoginLog
	offset := (page - 1) * size
	if err := tx.Order("timestamp DESC, id DESC").Offset(offset).Limit(size).Find(&rows).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, rows)
}
