package sqlite3

import (
	"context"
	"database/sql"

	"github.com/sparkify/dwhdef/database"
	_ "modernc.org/sqlite"
)

// Sqlite3Database opens a local file, which is handy for rehearsing a catalog without a cluster.
type Sqlite3Database struct {
	config database.Config
	db     *sql.DB
}

func NewDatabase(config database.Config) (database.Database, error) {
	db, err := sql.Open("sqlite", config.DbName)
	if err != nil {
		return nil, err
	}

	return &Sqlite3Database{
		db:     db,
		config: config,
	}, nil
}

func (d *Sqlite3Database) DB() *sql.DB {
	return d.db
}

func (d *Sqlite3Database) GetConfig() database.Config {
	return d.config
}

func (d *Sqlite3Database) Close() error {
	return d.db.Close()
}

// TableNames lists user tables in name order.
func (d *Sqlite3Database) TableNames(ctx context.Context) ([]string, error) {
	rows, err := d.db.QueryContext(ctx,
		`select tbl_name from sqlite_master where type = 'table' and tbl_name not like 'sqlite_%' order by tbl_name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tables := []string{}
	for rows.Next() {
		var table string
		if err := rows.Scan(&table); err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, rows.Err()
}

// ColumnNames lists the columns of table in declaration order.
func (d *Sqlite3Database) ColumnNames(ctx context.Context, table string) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, `select name from pragma_table_info(?) order by cid`, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns := []string{}
	for rows.Next() {
		var column string
		if err := rows.Scan(&column); err != nil {
			return nil, err
		}
		columns = append(columns, column)
	}
	return columns, rows.Err()
}
