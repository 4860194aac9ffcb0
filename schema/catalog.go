// Package schema holds the ordered DDL lists applied by a reset.
package schema

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/sparkify/dwhdef/util"
	"gopkg.in/yaml.v2"
)

var ErrInvalidCatalog = errors.New("invalid catalog")

// Catalog is a pair of independently ordered statement lists. Drop order and create order
// must already respect dependencies between tables; nothing here reorders or checks them.
type Catalog struct {
	Drop   []string `yaml:"drop"`
	Create []string `yaml:"create"`
}

// Sparkify returns the built-in warehouse catalog.
func Sparkify() Catalog {
	return Catalog{
		Drop:   slices.Clone(dropTableQueries),
		Create: slices.Clone(createTableQueries),
	}
}

// ResolveCatalog loads the catalog at path, or returns the built-in one when path is empty.
func ResolveCatalog(path string) (Catalog, error) {
	if path == "" {
		return Sparkify(), nil
	}
	return LoadCatalog(path)
}

// LoadCatalog reads a YAML file of the form
//
//	drop:
//	  - DROP TABLE IF EXISTS songs
//	create:
//	  - CREATE TABLE songs (id INT)
func LoadCatalog(path string) (Catalog, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, err
	}
	catalog, err := ParseCatalog(buf)
	if err != nil {
		return Catalog{}, fmt.Errorf("%s: %w", path, err)
	}
	return catalog, nil
}

// ParseCatalog decodes a YAML catalog. Each statement is rewritten by normalizeStatement.
func ParseCatalog(buf []byte) (Catalog, error) {
	var catalog Catalog
	if err := yaml.UnmarshalStrict(buf, &catalog); err != nil {
		return Catalog{}, fmt.Errorf("%w: %s", ErrInvalidCatalog, err)
	}

	catalog.Drop = util.TransformSlice(catalog.Drop, normalizeStatement)
	catalog.Create = util.TransformSlice(catalog.Create, normalizeStatement)
	if err := catalog.Validate(); err != nil {
		return Catalog{}, err
	}
	return catalog, nil
}

// Validate rejects blank statements and an empty create list. SQL itself is not inspected.
func (c Catalog) Validate() error {
	if len(c.Create) == 0 {
		return fmt.Errorf("%w: create list is empty", ErrInvalidCatalog)
	}
	for i, ddl := range c.Drop {
		if ddl == "" {
			return fmt.Errorf("%w: drop statement #%d is empty", ErrInvalidCatalog, i+1)
		}
	}
	for i, ddl := range c.Create {
		if ddl == "" {
			return fmt.Errorf("%w: create statement #%d is empty", ErrInvalidCatalog, i+1)
		}
	}
	return nil
}

// Export renders the catalog in the format LoadCatalog reads.
func (c Catalog) Export() (string, error) {
	buf, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// normalizeStatement trims whitespace and one trailing semicolon; some drivers reject it.
func normalizeStatement(ddl string) string {
	ddl = strings.TrimSpace(ddl)
	ddl = strings.TrimSuffix(ddl, ";")
	return strings.TrimSpace(ddl)
}
