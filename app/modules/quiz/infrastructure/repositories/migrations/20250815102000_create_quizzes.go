package quizmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	quizdb "github.com/vidhyasarthi/vidhyasarthi-api/app/modules/quiz/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating quizzes table...")

		if _, err := db.NewCreateTable().Model((*quizdb.Quiz)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_quizzes_created_at ON quizzes(created_at DESC);
			`); err != nil {
				return fmt.Errorf("failed to add created_at index to quizzes: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_quizzes_for_streams ON quizzes USING GIN(for_streams);
			`); err != nil {
				return fmt.Errorf("failed to add stream index to quizzes: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping quizzes table...")

		if _, err := db.NewDropTable().Model((*quizdb.Quiz)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}
		return nil
	})
}
