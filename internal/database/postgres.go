package database

import (
	"context"
	"database/sql"
	"log"

	"github.com/sarobidyBryan/signalement/internal/config"

	_ "github.com/lib/pq"
	"go.uber.org/fx"
)

// PostgresDB wraps the relational system of record.
type PostgresDB struct {
	DB *sql.DB
}

// NewPostgres opens the PostgreSQL connection pool with lifecycle management
func NewPostgres(lc fx.Lifecycle, cfg *config.Config) (*PostgresDB, error) {
	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	log.Println("Connected to PostgreSQL!")

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Println("Closing PostgreSQL pool...")
			return db.Close()
		},
	})

	return &PostgresDB{DB: db}, nil
}
