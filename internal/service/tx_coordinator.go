package service

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/curriculum-api/pkg/errors"
)

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// unitOfWork runs fn inside one atomic transaction.
type unitOfWork interface {
	WithinTransaction(ctx context.Context, fn func(exec sqlx.ExtContext) error) error
}

// advisoryLocker serialises work on programs for the lifetime of a transaction.
type advisoryLocker interface {
	LockCourses(ctx context.Context, exec sqlx.ExtContext, courseIDs []int64) error
}

// TransactionCoordinator wraps reconciliation steps in a single transaction.
type TransactionCoordinator struct {
	db      txProvider
	metrics *MetricsService
	logger  *zap.Logger
}

// NewTransactionCoordinator constructs the coordinator.
func NewTransactionCoordinator(db txProvider, metrics *MetricsService, logger *zap.Logger) *TransactionCoordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransactionCoordinator{db: db, metrics: metrics, logger: logger}
}

// WithinTransaction commits when fn succeeds and rolls back on error or panic. The error
// returned by fn is surfaced with its context intact; raw store errors are classified.
func (c *TransactionCoordinator) WithinTransaction(ctx context.Context, fn func(exec sqlx.ExtContext) error) (err error) {
	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return ClassifyStoreError(err, "begin transaction")
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			c.logger.Warn("transaction rollback failed", zap.Error(rbErr))
		}
		c.metrics.ObserveTransaction(false)
		if p := recover(); p != nil {
			panic(p)
		}
	}()

	if err = fn(tx); err != nil {
		return ClassifyStoreError(err, "transaction aborted")
	}

	if err = tx.Commit(); err != nil {
		return ClassifyStoreError(err, "commit transaction")
	}
	committed = true
	c.metrics.ObserveTransaction(true)
	return nil
}

// LockCourses takes a transaction scoped advisory lock per distinct course id, in ascending order.
func (c *TransactionCoordinator) LockCourses(ctx context.Context, exec sqlx.ExtContext, courseIDs []int64) error {
	for _, id := range sortedDistinctIDs(courseIDs) {
		if _, err := exec.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, id); err != nil {
			return fmt.Errorf("advisory lock course %d: %w", id, err)
		}
		c.logger.Debug("advisory lock acquired", zap.Int64("course_id", id))
	}
	return nil
}

func sortedDistinctIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ClassifyStoreError maps store failures onto the domain error kinds. Errors that are
// already typed, and context cancellations, pass through unchanged.
func ClassifyStoreError(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code == "23505":
			return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, duplicateMessage(pqErr))
		case pqErr.Code.Class() == "08":
			return appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, appErrors.ErrTransport.Message)
		}
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, appErrors.ErrTransport.Message)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

func duplicateMessage(pqErr *pq.Error) string {
	if pqErr.Constraint != "" {
		return fmt.Sprintf("duplicate record violates %s", pqErr.Constraint)
	}
	return "duplicate record"
}
