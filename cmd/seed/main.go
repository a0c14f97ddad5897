package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/prasetyodwi/user-auth-service/config"
	"github.com/prasetyodwi/user-auth-service/pkg/helpers"
)

// Seeds a bootstrap admin account. Role is only assignable here; the
// registration endpoint always creates plain users.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "admin@example.com"
	password := "changeme123"
	name := "Administrator"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id int64
	err = db.QueryRow(`
		INSERT INTO users (name, email, password_hash, role, date_of_birth, phone)
		VALUES ($1, $2, $3, 'admin', '1970-01-01', '-')
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, name, email, hash).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed admin user: %v", err)
	}
	fmt.Printf("seeded admin user: id=%d email=%s password=%s\n", id, email, password)
}
