package main

import (
	"fmt"
	"log"
	"os"

	"github.com/sahuajaykumar2004-dot/EP/internal/infrastructure/database"
)

// Connection and migration smoke test for a freshly provisioned database.
func main() {
	dsn := "postgres://ep:ep@localhost:5432/ep?sslmode=disable"
	if envDSN := os.Getenv("TEST_DATABASE_DSN"); envDSN != "" {
		dsn = envDSN
	}

	fmt.Println("Database setup verification")
	fmt.Println("===========================")
	fmt.Printf("Connecting to: %s\n", dsn)

	db, err := database.Open(dsn)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get underlying sql.DB: %v", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	fmt.Println("✓ Database connection successful")

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run auto-migration: %v", err)
	}
	fmt.Println("✓ AutoMigrate completed successfully")

	for _, table := range []string{"users", "pre_registrations", "verification_codes", "casbin_rule"} {
		var count int64
		if err := db.Table(table).Count(&count).Error; err != nil {
			log.Fatalf("Failed to query %s table: %v", table, err)
		}
		fmt.Printf("✓ %s table accessible (current count: %d)\n", table, count)
	}

	fmt.Println("\nDatabase is ready.")
}
