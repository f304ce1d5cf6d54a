// Package store provides the persistence ports the loan lifecycle
// engine composes into atomic transitions.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bookstacks/circulation/internal/platform/logger"
	"github.com/jackc/pgx/v5/pgconn"
)

// TxFn is a function that executes within a database transaction.
// The transaction is committed if the function returns nil, or rolled
// back if it returns an error.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// TxRunner runs a function inside a single atomic transaction. The
// lifecycle engine depends on this seam rather than on *sql.DB
// directly, so its check-then-act paths can be exercised in tests
// without a live database.
type TxRunner interface {
	// RunInTx executes fn atomically: either every write fn performs is
	// committed, or none are. Implementations must guarantee that reads
	// and writes inside fn observe one consistent snapshot, and must
	// surface lost-race aborts as ErrConflict so callers can retry.
	RunInTx(ctx context.Context, fn TxFn) error
}

// TxManager is the production TxRunner backed by a *sql.DB. It opens
// serializable transactions: the engine's eligibility checks read the
// same rows its mutations write, and serializable isolation is what
// turns the check-then-act races (book availability, member loan count)
// into retryable serialization failures instead of double-commits.
type TxManager struct {
	db *sql.DB
}

// NewTxManager creates a TxManager over the given database handle.
func NewTxManager(db *sql.DB) *TxManager {
	if db == nil {
		panic("db cannot be nil")
	}
	return &TxManager{db: db}
}

// Ensure TxManager implements TxRunner
var _ TxRunner = (*TxManager)(nil)

// RunInTx implements TxRunner.RunInTx.
func (m *TxManager) RunInTx(ctx context.Context, fn TxFn) error {
	return runInTransaction(ctx, m.db, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
}

// DB returns the underlying database handle.
func (m *TxManager) DB() *sql.DB {
	return m.db
}

// runInTransaction executes the given function within a database
// transaction, rolling back on error or panic and committing otherwise.
func runInTransaction(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn TxFn) error {
	log := logger.FromContext(ctx)

	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		log.Error("failed to begin transaction",
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: begin: %v", ErrTransactionFailed, err)
	}

	// Roll back if fn panics, then re-panic.
	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to roll back transaction after panic",
					slog.String("error", rbErr.Error()),
					slog.Any("panic", p))
			}
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error("failed to roll back transaction",
				slog.String("rollback_error", rbErr.Error()),
				slog.String("original_error", err.Error()))
			return fmt.Errorf(
				"error rolling back transaction: %v (original error: %w)",
				rbErr,
				err,
			)
		}
		log.Debug("rolled back transaction",
			slog.String("error", err.Error()))
		return err
	}

	if err := tx.Commit(); err != nil {
		// Serializable transactions can lose the race at commit time;
		// surface that as a retryable conflict, not a hard failure.
		if isSerializationFailure(err) {
			log.Debug("transaction aborted by serialization failure",
				slog.String("error", err.Error()))
			return fmt.Errorf("%w: commit: %v", ErrConflict, err)
		}
		log.Error("failed to commit transaction",
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: commit: %v", ErrTransactionFailed, err)
	}

	return nil
}

// Postgres abort codes that mean "you lost a race, try again":
// serialization_failure and deadlock_detected.
const (
	serializationFailureCode = "40001"
	deadlockDetectedCode     = "40P01"
)

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == serializationFailureCode || pgErr.Code == deadlockDetectedCode
}
