package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/AndreaCerratoSP/CIAMS/shared/go-utils"
)

// DB is satisfied by *pgxpool.Pool and pgx.Tx, so every repository can run
// either on the pool or inside a caller's transaction.
type DB interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// inTx runs fn in a transaction on db. When db is already a pgx.Tx the
// nested Begin becomes a savepoint.
func inTx(ctx context.Context, db DB, fn func(DB) error) (err error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		err = tx.Commit(ctx)
	}()
	return fn(tx)
}

// mapPgError turns constraint violations into domain conflicts.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return utils.Conflictf("duplicate value violates %s", pgErr.ConstraintName)
	case pgForeignKeyViolation:
		return utils.Conflictf("reference constraint %s violated", pgErr.ConstraintName)
	}
	return err
}
