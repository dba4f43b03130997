package main

import (
	"context"
	"flag"
	"log"
	"os"

	"clearview/internal/config"
	"clearview/internal/seed"
	"clearview/internal/store"

	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed content")
	clearData := flag.Bool("clear-data", false, "Delete all rows (keep schema)")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("BLOCKED: Cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}

	// Setup logger
	logger := config.NewLogger(cfg, os.Stdout)

	if *clearData {
		log.Printf("Clearing data only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else if *schemaOnly {
		log.Printf("Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else {
		log.Printf("Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	// Seeding does not need cache revalidation
	ctx := context.Background()
	st, err := store.Open(ctx, store.OptionsFromConfig(cfg, nil, logger))
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	// Drop tables if requested
	if *dropTables {
		log.Println("Dropping all tables...")
		if err := st.DropAll(ctx); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("Tables dropped")
	}

	// Run schema to ensure tables exist
	log.Println("Ensuring database schema is up to date...")
	if err := st.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("Schema ready")

	if *schemaOnly {
		log.Println("Schema setup complete (schema-only mode)")
		return
	}

	// Seeding appends, so start from empty tables
	log.Println("Clearing existing content and records...")
	if err := st.ClearAll(ctx); err != nil {
		log.Fatalf("Failed to clear data: %v", err)
	}
	if *clearData {
		log.Println("Data cleared successfully")
		return
	}

	data, err := seed.Load()
	if err != nil {
		log.Fatalf("Failed to load seed data: %v", err)
	}

	sum, err := seed.NewSeeder(st.Collections, st.Records, logger).Apply(ctx, data)
	if err != nil {
		log.Fatalf("Seeding failed after %d items and %d records: %v", sum.Items, sum.Records, err)
	}

	log.Printf("Seeding complete: %d content items, %d records", sum.Items, sum.Records)
}
