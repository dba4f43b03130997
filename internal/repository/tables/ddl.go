package tables

import (
	"fmt"
	"strings"
)

// Dialect maps neutral column types to one backend's DDL
type Dialect struct {
	Types map[ColumnType]string
	// ID is the declaration of the primary key column
	ID string
}

// CreateTable renders CREATE TABLE IF NOT EXISTS for s under the given name
func (s Schema) CreateTable(name string, d Dialect) string {
	cols := []string{"id " + d.ID}
	if s.Ordered {
		cols = append(cols, "sort_order "+d.Types[Int])
	} else {
		cols = append(cols,
			"is_deleted "+d.Types[Bool]+" DEFAULT FALSE",
			"is_active "+d.Types[Bool]+" DEFAULT TRUE",
		)
	}
	cols = append(cols,
		"created_at "+d.Types[Timestamp],
		"updated_at "+d.Types[Timestamp],
		"deleted_at "+nullable(d.Types[Timestamp]),
	)
	for _, c := range s.Columns {
		cols = append(cols, c.Name+" "+d.Types[c.Type])
	}
	if !s.Ordered {
		cols = append(cols, "CHECK (is_deleted = (deleted_at IS NOT NULL))", "CHECK (NOT (is_deleted AND is_active))")
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", name, strings.Join(cols, ",\n\t"))
}

// CreateIndexes renders the indexes that support listing queries
func (s Schema) CreateIndexes(name string) []string {
	if s.Ordered {
		return []string{
			fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_order ON %s (sort_order) WHERE deleted_at IS NULL", name, name),
		}
	}
	return []string{
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_state ON %s (is_deleted, is_active, created_at)", name, name),
	}
}

func nullable(decl string) string {
	return strings.TrimSuffix(decl, " NOT NULL")
}
