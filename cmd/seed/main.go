package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/taskdeck/taskdeck/config"
	"github.com/taskdeck/taskdeck/internal/domain/entity"
	"github.com/taskdeck/taskdeck/pkg/helpers"
)

type seedTask struct {
	title       string
	description string
	priority    string
	status      string
}

var demoTasks = []seedTask{
	{"Fix bug", "Resolve 500 error on prod", entity.PriorityHigh, entity.StatusPending},
	{"Write release notes", "Summarize the changes shipped in the current sprint", entity.PriorityMedium, entity.StatusPending},
	{"Update dependencies", "Bump the patch versions and re-run the test suite", entity.PriorityLow, entity.StatusCompleted},
	{"Review onboarding docs", "Walk through the setup guide and note anything stale", entity.PriorityLow, entity.StatusPending},
	{"Prepare sprint demo", "Collect screenshots and a short script for the demo call", entity.PriorityMedium, entity.StatusPending},
	{"Archive old boards", "Close out the boards from the previous quarter", entity.PriorityLow, entity.StatusCompleted},
	{"Plan capacity", "Draft next month's capacity sheet for the team", entity.PriorityHigh, entity.StatusPending},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@taskdeck.dev"
	password := "Demo#Pass1"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, first_name, last_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET first_name = EXCLUDED.first_name
		RETURNING id
	`, email, hash, "Demo", "User").Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", id, email, password)

	for _, t := range demoTasks {
		if _, err := db.Exec(`
			INSERT INTO tasks (user_id, title, description, priority, status)
			VALUES ($1, $2, $3, $4, $5)
		`, id, t.title, t.description, t.priority, t.status); err != nil {
			log.Fatalf("failed to seed task %q: %v", t.title, err)
		}
	}
	fmt.Printf("seeded %d tasks for %s\n", len(demoTasks), email)
}
