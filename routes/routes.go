package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/thanaphatj/WOSystem/config"
	"github.com/thanaphatj/WOSystem/handlers"
	"github.com/thanaphatj/WOSystem/middlewares"
	"github.com/thanaphatj/WOSystem/models"
)

// Register wires all HTTP routes.
func Register(e *echo.Echo, cfg *config.Config) {
	// ===== Handlers (shared singletons) =====
	auth := handlers.NewAuthHandler(cfg.JWTSecret)
	ev := handlers.NewEventHandler()
	lv := handlers.NewLeaveHandler()
	hd := handlers.NewHolidayHandler()
	usr := handlers.NewUserHandler()
	wc := handlers.NewWorkerCountHandler()
	rp := handlers.NewReportHandler()
	ex := handlers.NewExportHandler()

	// ===== Public =====
	e.GET("/healthz", handlers.Health)
	e.POST("/auth/login", auth.Login)

	authMW := middlewares.RequireAuth(cfg.JWTSecret)

	// ===== Staff (ทุกตำแหน่งที่ login แล้ว) =====
	api := e.Group("", authMW)

	api.GET("/events", ev.List)
	api.GET("/events/availability", ev.Availability)
	api.GET("/events/:id", ev.Get)
	api.POST("/events", ev.Create)
	api.PUT("/events/:id", ev.Update)
	api.DELETE("/events/:id", ev.Delete)

	// ผู้ปฏิบัติงานปิดงาน/รับทราบ (lifecycle ตรวจเองว่าอยู่ในรายชื่อ)
	api.POST("/events/:id/complete", ev.Complete)
	api.POST("/events/:id/incomplete", ev.Incomplete)
	api.POST("/events/:id/acknowledge", ev.Acknowledge)

	api.GET("/leaves", lv.List)
	api.POST("/leaves", lv.Create)
	api.PUT("/leaves/:id", lv.Update)
	api.DELETE("/leaves/:id", lv.Delete)

	api.GET("/holidays", hd.List)
	api.GET("/users/workgroups", usr.Workgroups)
	api.GET("/worker-counts", wc.List)

	api.GET("/reports/:type/:jobNumber", rp.Get)
	api.PUT("/reports/:type/:jobNumber", rp.Put)
	api.DELETE("/reports/:type/:jobNumber", rp.Delete)

	// ===== Manager (อนุมัติ/ปฏิเสธ/export) =====
	mgr := e.Group("", authMW, middlewares.RequirePosition(
		models.PositionManager, models.PositionManagerSales, models.PositionAdmin,
	))
	mgr.POST("/events/:id/approve", ev.Approve)
	mgr.POST("/events/:id/reject", ev.Reject)
	mgr.GET("/export/summary", ex.Summary)

	// ===== Admin =====
	admin := e.Group("/admin", authMW, middlewares.RequirePosition(models.PositionAdmin))
	admin.GET("/users", usr.List)
	admin.POST("/users", usr.Create)
	admin.PUT("/users/:id", usr.Update)
	admin.DELETE("/users/:id", usr.Delete)

	admin.POST("/holidays", hd.Create)
	admin.DELETE("/holidays/:id", hd.Delete)

	admin.GET("/login-logs", auth.ListLoginLogs)
}
