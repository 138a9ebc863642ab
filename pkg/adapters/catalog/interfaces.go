package catalog

import (
	"context"

	"github.com/oraviz-inc/oraviz-engine/pkg/models"
)

// Reader provides access to a relational engine's catalog metadata.
// Implementations own their connection and must be closed when done.
type Reader interface {
	// Columns returns the columns of a table ordered by ordinal position.
	Columns(ctx context.Context, table string) ([]models.ColumnInfo, error)

	// PrimaryKey returns the primary key column names of a table ordered by
	// key position. An empty slice means no primary key constraint exists.
	PrimaryKey(ctx context.Context, table string) ([]string, error)

	// ForeignKeys returns referential constraint column pairs between two
	// tables, checked in both directions.
	ForeignKeys(ctx context.Context, table1, table2 string) ([]models.ForeignKeyPair, error)

	// Close releases the underlying connection.
	Close() error
}
