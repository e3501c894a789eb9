// Package bundb owns the PostgreSQL connection pool and model
// registration.
package bundb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	quizdb "github.com/vidhyasarthi/vidhyasarthi-api/app/modules/quiz/infrastructure/repositories"
	rankingdb "github.com/vidhyasarthi/vidhyasarthi-api/app/modules/ranking/infrastructure/repositories"
	userdb "github.com/vidhyasarthi/vidhyasarthi-api/app/modules/user/infrastructure/repositories"
	"github.com/vidhyasarthi/vidhyasarthi-api/config"
)

// DBService bundles the pool with the repositories built on it.
type DBService struct {
	Users    *userdb.RepositoryImpl
	Quizzes  *quizdb.RepositoryImpl
	Attempts *rankingdb.AttemptRepositoryImpl
	Scores   *rankingdb.ScoreRepositoryImpl
	db       *bun.DB
}

// GetDB returns the underlying connection pool.
func (s *DBService) GetDB() *bun.DB {
	return s.db
}

// NewBunDBService opens the pool, verifies connectivity and registers
// every model.
func NewBunDBService(ctx context.Context, cfg config.PostgresConfig) (*DBService, error) {
	sqldb, err := pgConn(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := bun.NewDB(sqldb, pgdialect.New())

	db.RegisterModel(&userdb.User{})
	db.RegisterModel(&quizdb.Quiz{})
	db.RegisterModel(&rankingdb.Attempt{})
	db.RegisterModel(&rankingdb.CumulativeScore{})

	return &DBService{
		Users:    userdb.NewRepository(),
		Quizzes:  quizdb.NewRepository(),
		Attempts: rankingdb.NewAttemptRepository(),
		Scores:   rankingdb.NewScoreRepository(),
		db:       db,
	}, nil
}

func pgConn(ctx context.Context, dsn string) (*sql.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))

	if err := sqldb.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return sqldb, nil
}
