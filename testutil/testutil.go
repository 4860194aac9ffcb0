package testutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/sparkify/dwhdef/database"
	"github.com/sparkify/dwhdef/util"
)

var stripHeredocRegex = regexp.MustCompilePOSIX("^\t*")

func init() {
	util.InitSlog()

	// Keep test output quiet unless LOG_LEVEL asks for more. Warnings and errors still appear.
	if os.Getenv("LOG_LEVEL") == "" {
		opts := &slog.HandlerOptions{
			Level: slog.LevelWarn,
		}
		handler := slog.NewTextHandler(os.Stderr, opts)
		slog.SetDefault(slog.New(handler))
	}
}

// StringLogger collects everything a reset prints.
type StringLogger struct {
	buf strings.Builder
}

func (l *StringLogger) Print(v ...any) {
	l.buf.WriteString(fmt.Sprint(v...))
}

func (l *StringLogger) Printf(format string, v ...any) {
	l.buf.WriteString(fmt.Sprintf(format, v...))
}

func (l *StringLogger) Println(v ...any) {
	l.buf.WriteString(fmt.Sprint(v...))
	l.buf.WriteString("\n")
}

func (l *StringLogger) String() string {
	return l.buf.String()
}

// QueryRows executes a query and returns the results as a tab-separated string.
func QueryRows(db database.Database, query string) (string, error) {
	rows, err := db.DB().Query(query)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var result strings.Builder
	columns, err := rows.Columns()
	if err != nil {
		return "", err
	}

	values := make([]any, len(columns))
	valuePtrs := make([]any, len(columns))
	for i := range values {
		valuePtrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(valuePtrs...); err != nil {
			return "", err
		}

		for i, val := range values {
			if i > 0 {
				result.WriteString("\t")
			}
			if val != nil {
				switch v := val.(type) {
				case []byte:
					result.WriteString(string(v))
				default:
					result.WriteString(fmt.Sprintf("%v", v))
				}
			}
		}
		result.WriteString("\n")
	}

	return result.String(), rows.Err()
}

// WriteFile writes content to name inside a fresh temporary directory and returns its path.
func WriteFile(t *testing.T, name string, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func StripHeredoc(heredoc string) string {
	heredoc = strings.TrimPrefix(heredoc, "\n")
	return stripHeredocRegex.ReplaceAllLiteralString(heredoc, "")
}
