package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TestDatabase holds test database connection (in-memory SQLite)
type TestDatabase struct {
	DB  *gorm.DB
	DSN string
}

// TestRedis holds test Redis mock (miniredis)
type TestRedis struct {
	Server *miniredis.Miniredis
	URL    string
}

// TestUser is a SQLite-compatible version of models.User for testing.
// SQLite stores UUIDs as TEXT and has no gen_random_uuid(), so IDs are
// always generated in Go.
type TestUser struct {
	ID           string  `gorm:"type:text;primaryKey"`
	Email        string  `gorm:"type:varchar(100);uniqueIndex;not null"`
	Name         string  `gorm:"type:varchar(100)"`
	PasswordHash *string `gorm:"type:varchar(255)"`
	Role         string  `gorm:"type:varchar(20);not null;default:'USER'"`
	Status       string  `gorm:"type:varchar(20);not null;default:'PENDING'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (TestUser) TableName() string {
	return "users"
}

// TestUserApproval is a SQLite-compatible version of models.UserApproval
type TestUserApproval struct {
	ID        string `gorm:"type:text;primaryKey"`
	UserID    string `gorm:"type:text;not null;index"`
	AdminID   string `gorm:"type:text;not null;index"`
	Decision  string `gorm:"type:varchar(20);not null"`
	Reason    string `gorm:"type:text"`
	CreatedAt time.Time
}

func (TestUserApproval) TableName() string {
	return "user_approvals"
}

// TestRoom is a SQLite-compatible version of models.Room
type TestRoom struct {
	ID        string `gorm:"type:text;primaryKey"`
	Name      string `gorm:"type:varchar(100);uniqueIndex;not null"`
	Icon      string `gorm:"type:varchar(50)"`
	CreatedAt time.Time
}

func (TestRoom) TableName() string {
	return "rooms"
}

// TestEvent is a SQLite-compatible version of models.Event
type TestEvent struct {
	ID            string    `gorm:"type:text;primaryKey"`
	Title         string    `gorm:"type:varchar(200);not null"`
	Description   string    `gorm:"type:text"`
	Color         string    `gorm:"type:varchar(32)"`
	StartTime     time.Time `gorm:"not null;index"`
	EndTime       time.Time `gorm:"not null"`
	RoomID        string    `gorm:"type:text;not null;index"`
	CreatedByID   string    `gorm:"type:text;not null;index"`
	Status        string    `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	Type          string    `gorm:"type:varchar(20);not null;default:'OTHER'"`
	TypeOtherName string    `gorm:"type:varchar(100)"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (TestEvent) TableName() string {
	return "events"
}

// SetupTestDatabase creates an in-memory SQLite database for integration tests
// No Docker required! Fast and isolated.
func SetupTestDatabase(t *testing.T) *TestDatabase {
	dsn := "file::memory:?cache=shared"

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	err = db.AutoMigrate(&TestUser{}, &TestUserApproval{}, &TestRoom{}, &TestEvent{})
	if err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return &TestDatabase{
		DB:  db,
		DSN: dsn,
	}
}

// Teardown cleans up the test database (closes connection)
func (td *TestDatabase) Teardown(t *testing.T) {
	sqlDB, err := td.DB.DB()
	if err != nil {
		t.Logf("Warning: Failed to get underlying DB: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		t.Logf("Warning: Failed to close database: %v", err)
	}
}

// SetupTestRedis creates an in-memory Redis mock (miniredis)
func SetupTestRedis(t *testing.T) *TestRedis {
	server, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	return &TestRedis{
		Server: server,
		URL:    fmt.Sprintf("redis://%s", server.Addr()),
	}
}

// Teardown cleans up the test Redis mock
func (tr *TestRedis) Teardown(t *testing.T) {
	tr.Server.Close()
}

// CleanDatabase deletes all records from tables (for test isolation)
func CleanDatabase(t *testing.T, db *gorm.DB) {
	// SQLite doesn't support TRUNCATE
	tables := []string{"events", "user_approvals", "rooms", "users"}
	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			t.Logf("Warning: Failed to clean table %s: %v", table, err)
		}
	}
}
