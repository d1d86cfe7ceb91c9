package main

import (
	"database/sql"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		phone TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS vehicles (
		id TEXT PRIMARY KEY,
		brand TEXT NOT NULL,
		model TEXT NOT NULL,
		registration_number TEXT UNIQUE NOT NULL,
		status TEXT NOT NULL DEFAULT 'available' CHECK (status IN ('available', 'maintenance', 'reserved')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		vehicle_id TEXT NOT NULL REFERENCES vehicles(id) ON DELETE CASCADE,
		start_date TIMESTAMPTZ NOT NULL,
		end_date TIMESTAMPTZ NOT NULL,
		reason TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'confirmed' CHECK (status IN ('pending', 'confirmed', 'cancelled', 'completed')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CHECK (end_date > start_date)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reservations_overlap ON reservations(vehicle_id, start_date, end_date)`,
	`CREATE INDEX IF NOT EXISTS idx_reservations_user ON reservations(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_reservations_vehicle ON reservations(vehicle_id)`,
}

var seedVehicles = []struct {
	brand, model, registration string
}{
	{"Toyota", "Corolla", "TG-1234-AB"},
	{"Honda", "Civic", "TG-5678-CD"},
	{"Ford", "Focus", "TG-9012-EF"},
	{"Volkswagen", "Golf", "TG-3456-GH"},
	{"Peugeot", "308", "TG-7890-IJ"},
}

func main() {
	godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	database, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := database.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	for _, stmt := range schema {
		if _, err := database.Exec(stmt); err != nil {
			log.Fatalf("Schema statement failed: %v", err)
		}
	}

	seeded := 0
	for _, v := range seedVehicles {
		result, err := database.Exec(`
			INSERT INTO vehicles (id, brand, model, registration_number, status)
			VALUES ($1, $2, $3, $4, 'available')
			ON CONFLICT (registration_number) DO NOTHING`,
			uuid.NewString(), v.brand, v.model, v.registration,
		)
		if err != nil {
			log.Fatalf("Seeding vehicle %s failed: %v", v.registration, err)
		}
		if n, _ := result.RowsAffected(); n > 0 {
			seeded++
		}
	}

	log.Infof("Database initialized, %d vehicles seeded", seeded)
}
