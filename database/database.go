// This package has database database layer. Never deal with DDL construction.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

type Config struct {
	Type     string
	DbName   string
	User     string
	Password string
	Host     string
	Port     int
	Socket   string
	SslMode  string
}

// Abstraction layer for multiple kinds of databases
type Database interface {
	DB() *sql.DB
	GetConfig() Config
	Close() error
}

// Session executes statements on behalf of ResetSchema. Both *sql.Conn and *sql.DB satisfy it.
// The session is borrowed: nothing in this package opens or closes it.
type Session interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type Phase string

const (
	PhaseBeforeApply Phase = "before-apply"
	PhaseDrop        Phase = "drop"
	PhaseCreate      Phase = "create"
)

// StatementError reports the statement that aborted a reset. It unwraps to the driver error
// unchanged, so use errors.As to get at driver types such as *pq.Error.
type StatementError struct {
	Phase     Phase
	Position  int // 1-based within its phase
	Statement string
	Err       error
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("%s statement #%d failed: %s\n-- statement: %s", e.Phase, e.Position, e.Err, e.Statement)
}

func (e *StatementError) Unwrap() error {
	return e.Err
}

// ResetSchema runs every drop statement and then every create statement, in the given order,
// committing after each one. The first failure stops the reset; statements already run stay committed.
func ResetSchema(ctx context.Context, s Session, drops []string, creates []string, logger Logger) error {
	if err := ExecuteAll(ctx, s, PhaseDrop, drops, logger); err != nil {
		return err
	}
	return ExecuteAll(ctx, s, PhaseCreate, creates, logger)
}

// ExecuteAll runs ddls in order with one commit per statement and stops at the first error.
func ExecuteAll(ctx context.Context, s Session, phase Phase, ddls []string, logger Logger) error {
	if logger == nil {
		logger = NullLogger{}
	}
	for i, ddl := range ddls {
		logger.Printf("%s;\n", strings.TrimSuffix(strings.TrimSpace(ddl), ";"))

		start := time.Now()
		if err := executeAndCommit(ctx, s, ddl); err != nil {
			return &StatementError{Phase: phase, Position: i + 1, Statement: ddl, Err: err}
		}
		slog.Debug("statement committed", "phase", phase, "position", i+1, "elapsed", time.Since(start))
	}
	return nil
}

func executeAndCommit(ctx context.Context, s Session, ddl string) error {
	if !TransactionSupported(ddl) {
		// autocommit
		_, err := s.ExecContext(ctx, ddl)
		return err
	}

	transaction, err := s.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := transaction.ExecContext(ctx, ddl); err != nil {
		transaction.Rollback()
		return err
	}
	return transaction.Commit()
}

// TransactionSupported reports whether ddl may run inside a transaction block.
func TransactionSupported(ddl string) bool {
	lower := strings.ToLower(ddl)
	if strings.Contains(lower, "concurrently") {
		return false
	}
	return !strings.HasPrefix(strings.TrimSpace(lower), "vacuum")
}
