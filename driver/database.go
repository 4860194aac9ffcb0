// This package has database driver layer. Never deal with DDL construction.
package driver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sparkify/dwhdef/database"
	"github.com/sparkify/dwhdef/database/mssql"
	"github.com/sparkify/dwhdef/database/mysql"
	"github.com/sparkify/dwhdef/database/postgres"
	"github.com/sparkify/dwhdef/database/sqlite3"
)

var ErrUnknownType = errors.New("unknown database type")

// Types lists the accepted values of database.Config.Type.
var Types = []string{"postgres", "redshift", "mysql", "sqlite3", "mssql"}

// NewDatabase opens the connector for config.Type. Redshift uses the PostgreSQL connector.
// No connection is made until the database is used.
func NewDatabase(config database.Config) (database.Database, error) {
	switch NormalizeType(config.Type) {
	case "postgres", "redshift":
		return postgres.NewDatabase(config)
	case "mysql":
		return mysql.NewDatabase(config)
	case "sqlite3":
		return sqlite3.NewDatabase(config)
	case "mssql":
		return mssql.NewDatabase(config)
	default:
		return nil, fmt.Errorf("%w %q: database type must be one of %s", ErrUnknownType, config.Type, strings.Join(Types, ", "))
	}
}

// NormalizeType folds case and common aliases.
func NormalizeType(dbType string) string {
	switch t := strings.ToLower(strings.TrimSpace(dbType)); t {
	case "postgresql", "pg":
		return "postgres"
	case "sqlite":
		return "sqlite3"
	case "sqlserver":
		return "mssql"
	default:
		return t
	}
}
