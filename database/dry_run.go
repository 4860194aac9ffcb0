package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"sync"
)

// DryRunDatabase accepts every statement without sending it anywhere.
// The wrapped database is never contacted, so no credentials need to be valid.
type DryRunDatabase struct {
	wrapped  Database
	dryRunDB *sql.DB

	mu       sync.Mutex
	executed []string
}

func NewDryRunDatabase(db Database) (*DryRunDatabase, error) {
	d := &DryRunDatabase{wrapped: db}

	dryRunDriverName := fmt.Sprintf("dry-run-%p", d) // Unique name per database instance
	sql.Register(dryRunDriverName, &dryRunDriver{record: d.record})

	dryRunDB, err := sql.Open(dryRunDriverName, "dry-run")
	if err != nil {
		return nil, err
	}
	d.dryRunDB = dryRunDB
	return d, nil
}

func (d *DryRunDatabase) DB() *sql.DB {
	return d.dryRunDB
}

func (d *DryRunDatabase) GetConfig() Config {
	return d.wrapped.GetConfig()
}

func (d *DryRunDatabase) Close() error {
	if err := d.dryRunDB.Close(); err != nil {
		return err
	}
	return d.wrapped.Close()
}

// Executed returns the statements received so far, in order.
func (d *DryRunDatabase) Executed() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.executed...)
}

func (d *DryRunDatabase) record(query string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.executed = append(d.executed, query)
}

type dryRunDriver struct {
	record func(string)
}

func (d *dryRunDriver) Open(name string) (driver.Conn, error) {
	return &dryRunConn{record: d.record}, nil
}

type dryRunConn struct {
	record func(string)
}

func (c *dryRunConn) Prepare(query string) (driver.Stmt, error) {
	return &dryRunStmt{query: query, record: c.record}, nil
}

func (c *dryRunConn) Close() error {
	return nil
}

func (c *dryRunConn) Begin() (driver.Tx, error) {
	return dryRunTx{}, nil
}

func (c *dryRunConn) Ping(ctx context.Context) error {
	return nil
}

type dryRunTx struct{}

func (tx dryRunTx) Commit() error {
	return nil
}

func (tx dryRunTx) Rollback() error {
	return nil
}

type dryRunStmt struct {
	query  string
	record func(string)
}

func (s *dryRunStmt) Close() error {
	return nil
}

func (s *dryRunStmt) NumInput() int {
	return -1
}

func (s *dryRunStmt) Exec(args []driver.Value) (driver.Result, error) {
	s.record(s.query)
	return driver.RowsAffected(0), nil
}

func (s *dryRunStmt) Query(args []driver.Value) (driver.Rows, error) {
	return &dryRunRows{}, nil
}

type dryRunRows struct{}

func (r *dryRunRows) Columns() []string {
	return []string{}
}

func (r *dryRunRows) Close() error {
	return nil
}

func (r *dryRunRows) Next(dest []driver.Value) error {
	return io.EOF
}
