package main

import (
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/roomkit/roombook/internal/config"
	"github.com/roomkit/roombook/internal/database"
	"github.com/roomkit/roombook/internal/models"
	"github.com/roomkit/roombook/internal/utils"
)

// The default room catalog. Seeding is idempotent: existing rooms are
// left alone, missing ones are added.
var defaultRooms = []models.Room{
	{Name: "Physics", Icon: "Atom"},
	{Name: "Biology", Icon: "Microscope"},
	{Name: "Mathematics", Icon: "Calculator"},
	{Name: "Chemistry", Icon: "FlaskConical"},
	{Name: "Genetics", Icon: "Dna"},
	{Name: "Astronomy", Icon: "Telescope"},
	{Name: "Computer Science", Icon: "Cpu"},
	{Name: "Geology", Icon: "Mountain"},
	{Name: "Ecology", Icon: "Leaf"},
	{Name: "Robotics", Icon: "Bot"},
}

func main() {
	cfg := config.Load()
	database.Connect(cfg)
	database.Migrate()

	seedAdmin()
	seedRooms()
}

func seedAdmin() {
	adminName := os.Getenv("ADMIN_NAME")
	adminEmail := utils.NormalizeEmail(os.Getenv("ADMIN_EMAIL"))
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminName == "" || adminEmail == "" || adminPassword == "" {
		log.Fatal("Missing environment variables: ADMIN_NAME, ADMIN_EMAIL, ADMIN_PASSWORD")
	}

	var admin models.User
	result := database.DB.Unscoped().Where("email = ?", adminEmail).First(&admin)

	if result.Error == nil {
		log.Println("✅ Admin user already exists:", admin.Name)
		log.Println("   Email:", admin.Email)
		return
	}

	passwordHash, err := utils.HashPassword(adminPassword)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	admin = models.User{
		ID:           uuid.New(),
		Name:         adminName,
		Email:        adminEmail,
		PasswordHash: &passwordHash,
		Role:         models.RoleAdmin,
		Status:       models.StatusApproved,
	}

	if err := database.DB.Create(&admin).Error; err != nil {
		log.Fatal("Failed to create admin:", err)
	}

	log.Println("✅ Admin user created successfully!")
	log.Println("   Name:", admin.Name)
	log.Println("   Email:", admin.Email)
}

func seedRooms() {
	created := 0
	for _, room := range defaultRooms {
		var existing models.Room
		result := database.DB.Where("name = ?", room.Name).First(&existing)
		if result.Error == nil {
			continue
		}

		room.ID = uuid.New()
		if err := database.DB.Create(&room).Error; err != nil {
			log.Fatal("Failed to create room:", err)
		}
		created++
	}

	log.Printf("✅ Room catalog seeded (%d created, %d total)", created, len(defaultRooms))
}
