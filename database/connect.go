package database

import (
	"context"
	"database/sql"
	"fmt"
)

// ConnectionError means no session could be established with the database.
type ConnectionError struct {
	Config Config
	Err    error
}

func (e *ConnectionError) Error() string {
	target := e.Config.Host
	if e.Config.Socket != "" {
		target = e.Config.Socket
	}
	if target == "" {
		return fmt.Sprintf("failed to connect to %s database %q: %s", e.Config.Type, e.Config.DbName, e.Err)
	}
	return fmt.Sprintf("failed to connect to %s database %q at %s: %s", e.Config.Type, e.Config.DbName, target, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Connect verifies the database is reachable and pins a single session.
// The caller must Close the returned connection.
func Connect(ctx context.Context, d Database) (*sql.Conn, error) {
	conn, err := d.DB().Conn(ctx)
	if err != nil {
		return nil, &ConnectionError{Config: d.GetConfig(), Err: err}
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, &ConnectionError{Config: d.GetConfig(), Err: err}
	}
	return conn, nil
}
