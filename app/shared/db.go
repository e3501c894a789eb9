package shared

import (
	"context"
	"database/sql"

	"github.com/uptrace/bun"
)

// DB is what application services need from the database: the query
// surface plus transactions. *bun.DB satisfies it.
type DB interface {
	bun.IDB
	RunInTx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, tx bun.Tx) error) error
}
