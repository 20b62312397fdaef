// scripts/create_admin.go
package main

import (
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/thanaphatj/WOSystem/config"
	"github.com/thanaphatj/WOSystem/database"
	"github.com/thanaphatj/WOSystem/models"
)

func main() {
	// โหลด config และเชื่อม DB ตามที่ main.go ใช้จริง
	cfg := config.Load()
	database.Connect(cfg)

	userID := "admin"
	password := "1234"

	// แฮชรหัสผ่าน
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	// ตรวจว่ามีผู้ใช้งานรหัสเดียวกันอยู่หรือไม่
	var existing models.User
	if err := database.DB.Where("LOWER(user_id) = LOWER(?)", userID).First(&existing).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Fatalf("failed to query users: %v", err)
		}
	} else {
		fmt.Println("⚠️  Admin user already exists with userId:", userID)
		os.Exit(0)
	}

	// สร้าง user ใหม่ position=admin
	u := models.User{
		Name:     "Admin",
		UserID:   userID,
		Password: string(hashed),
		Position: models.PositionAdmin,
	}
	if err := database.DB.Create(&u).Error; err != nil {
		log.Fatalf("failed to insert admin: %v", err)
	}

	fmt.Println("✅ Admin user created successfully!")
	fmt.Println("   UserId:", userID)
	fmt.Println("   Password:", password, "(plain, remember to change later!)")
}
