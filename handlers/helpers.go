package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// แปลง string -> int; ถ้าแปลงไม่ได้ให้คืนค่าเริ่มต้น
func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func isDateYYYYMMDD(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func mustID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// อ่านข้อมูลผู้ใช้จาก context ที่ middleware แนบไว้
func actorName(c echo.Context) string {
	name, _ := c.Get("name").(string)
	return name
}

func actorPosition(c echo.Context) string {
	pos, _ := c.Get("position").(string)
	return pos
}

func isAdmin(c echo.Context) bool {
	return strings.EqualFold(actorPosition(c), "admin")
}
