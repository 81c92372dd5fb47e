package client

import (
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"printshop-backend/internal/model"
)

func InitMysqlClient(databaseURL string) *gorm.DB {
	db, err := gorm.Open(mysql.Open(databaseURL), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal(err)
	}

	// Connection pool (important for webhooks)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	Migrate(db)
	return db
}

// InitSqliteClient opens an in-memory store, used by tests and local dev
// without a MySQL instance.
func InitSqliteClient() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to open sqlite store:", err)
	}

	Migrate(db)
	return db
}

// Migrate creates the schema. Exposed so tests can prepare their own
// private sqlite stores.
func Migrate(db *gorm.DB) {
	if err := db.AutoMigrate(
		&model.ShopItem{},
		&model.PrintVariant{},
		&model.Order{},
		&model.WebhookEvent{},
	); err != nil {
		log.Fatal(err)
	}
}
