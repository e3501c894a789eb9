package rankingmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	rankingdb "github.com/vidhyasarthi/vidhyasarthi-api/app/modules/ranking/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating ranking tables...")

		if _, err := db.NewCreateTable().Model((*rankingdb.Attempt)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().Model((*rankingdb.CumulativeScore)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}

		// The leaderboard reads are score-ordered and the per-quiz rank
		// aggregates group by user within one quiz.
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_quiz_attempts_quiz_id ON quiz_attempts(quiz_id);
			`); err != nil {
				return fmt.Errorf("failed to add quiz index to quiz_attempts: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_quiz_attempts_user_id ON quiz_attempts(user_id);
			`); err != nil {
				return fmt.Errorf("failed to add user index to quiz_attempts: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_cumulative_scores_score ON cumulative_scores(score DESC);
			`); err != nil {
				return fmt.Errorf("failed to add score index to cumulative_scores: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping ranking tables...")

		if _, err := db.NewDropTable().Model((*rankingdb.Attempt)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewDropTable().Model((*rankingdb.CumulativeScore)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}
		return nil
	})
}
