package main

import (
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/robfig/cron/v3"

	"github.com/thanaphatj/WOSystem/config"
	"github.com/thanaphatj/WOSystem/database"
	"github.com/thanaphatj/WOSystem/routes"
)

func main() {
	cfg := config.Load()

	// เชื่อมต่อฐานข้อมูล (ถ้า DB ยังไม่ขึ้น โปรแกรมจะ error ทันที — เหมาะสำหรับ early fail)
	database.Connect(cfg)

	// ลบ login log เก่าทุกคืน ตี 2 ครึ่ง
	sched := cron.New()
	if _, err := sched.AddFunc("30 2 * * *", func() {
		n, err := database.PurgeLoginLogs(cfg.LoginLogRetentionDays)
		if err != nil {
			log.Printf("[cron] purge login logs failed: %v", err)
			return
		}
		log.Printf("[cron] purged %d login logs older than %d days", n, cfg.LoginLogRetentionDays)
	}); err != nil {
		log.Fatalf("register cron job failed: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORS())

	routes.Register(e, cfg)

	addr := ":" + cfg.AppPort
	log.Printf("server listening at %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
