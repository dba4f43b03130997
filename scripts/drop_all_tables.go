package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"slices"

	"clearview/internal/config"
	"clearview/internal/repository/tables"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}
	if cfg.Environment == "prod" {
		log.Fatal("refusing to drop production tables")
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = db.Close() }() // Error ignored: script exiting

	// Drop in reverse creation order
	names := tables.NewNames(cfg.TablePrefix).All()
	slices.Reverse(names)
	for _, name := range names {
		if _, err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", name)); err != nil {
			log.Fatalf("Failed to drop %s: %v", name, err)
		}
	}

	fmt.Printf("All tables dropped successfully (prefix: %s)\n", cfg.TablePrefix)
}
