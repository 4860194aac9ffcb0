package mysql

import (
	"database/sql"
	"fmt"
	"strings"

	driver "github.com/go-sql-driver/mysql"
	"github.com/sparkify/dwhdef/database"
)

type MysqlDatabase struct {
	config database.Config
	db     *sql.DB
}

func NewDatabase(config database.Config) (database.Database, error) {
	db, err := sql.Open("mysql", mysqlBuildDSN(config))
	if err != nil {
		return nil, err
	}

	return &MysqlDatabase{
		db:     db,
		config: config,
	}, nil
}

func (d *MysqlDatabase) DB() *sql.DB {
	return d.db
}

func (d *MysqlDatabase) GetConfig() database.Config {
	return d.config
}

func (d *MysqlDatabase) Close() error {
	return d.db.Close()
}

func mysqlBuildDSN(config database.Config) string {
	c := driver.NewConfig()
	c.User = config.User
	c.Passwd = config.Password
	c.DBName = config.DbName
	c.TLSConfig = mysqlTLSConfig(config.SslMode)
	if config.Socket == "" {
		c.Net = "tcp"
		c.Addr = fmt.Sprintf("%s:%d", config.Host, config.Port)
	} else {
		c.Net = "unix"
		c.Addr = config.Socket
	}
	return c.FormatDSN()
}

// mysqlTLSConfig maps the libpq-style sslmode values shared with the other connectors.
func mysqlTLSConfig(sslMode string) string {
	switch strings.ToLower(sslMode) {
	case "", "prefer", "preferred":
		return "preferred"
	case "disable", "disabled":
		return "false"
	case "verify-full", "verify-ca":
		return "true"
	case "require", "required":
		return "skip-verify"
	default:
		return sslMode
	}
}
