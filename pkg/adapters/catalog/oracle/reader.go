package oracle

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	// Registers the "oracle" driver with database/sql.
	_ "github.com/sijms/go-ora/v2"
	"go.uber.org/zap"

	"github.com/oraviz-inc/oraviz-engine/pkg/logging"
	"github.com/oraviz-inc/oraviz-engine/pkg/models"
	"github.com/oraviz-inc/oraviz-engine/pkg/retry"
)

// Reader reads Oracle catalog metadata (ALL_TAB_COLUMNS, ALL_CONSTRAINTS,
// ALL_CONS_COLUMNS) scoped to the connected user plus configured owners.
// Transient connection failures are retried with backoff before the error
// surfaces to callers.
type Reader struct {
	db       *sql.DB
	owners   []string
	retryCfg *retry.Config
	logger   *zap.Logger
}

// NewReader opens a catalog reader. If logger is nil, a no-op logger is used.
func NewReader(cfg *Config, logger *zap.Logger) (*Reader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid oracle config: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	connStr := cfg.ConnectionString()
	db, err := sql.Open("oracle", connStr)
	if err != nil {
		return nil, fmt.Errorf("open oracle connection: %w", err)
	}
	logger.Debug("opened oracle catalog connection",
		zap.String("url", logging.SanitizeConnectionString(connStr)))

	return &Reader{
		db:       db,
		owners:   cfg.Owners,
		retryCfg: retry.DefaultConfig(),
		logger:   logger.Named("oracle-catalog"),
	}, nil
}

// Close releases the database connection.
func (r *Reader) Close() error {
	return r.db.Close()
}

// ownerClause builds the owner filter and its bind arguments, starting the
// placeholder numbering after the given offset.
func (r *Reader) ownerClause(column string, offset int) (string, []any) {
	if len(r.owners) == 0 {
		return column + " = USER", nil
	}
	placeholders := make([]string, 0, len(r.owners))
	args := make([]any, 0, len(r.owners))
	for i, owner := range r.owners {
		placeholders = append(placeholders, fmt.Sprintf(":%d", offset+i+1))
		args = append(args, strings.ToUpper(owner))
	}
	return fmt.Sprintf("%s IN (USER, %s)", column, strings.Join(placeholders, ", ")), args
}

// Columns returns the columns of a table ordered by ordinal position.
func (r *Reader) Columns(ctx context.Context, table string) ([]models.ColumnInfo, error) {
	ownerCond, ownerArgs := r.ownerClause("owner", 1)
	query := fmt.Sprintf(`
		SELECT column_name, data_type, data_length, nullable, column_id
		FROM all_tab_columns
		WHERE table_name = :1 AND %s
		ORDER BY column_id`, ownerCond)

	args := append([]any{strings.ToUpper(table)}, ownerArgs...)

	var columns []models.ColumnInfo
	err := retry.Do(ctx, r.retryCfg, func() error {
		columns = columns[:0]
		rows, err := r.db.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("query table columns: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var (
				col      models.ColumnInfo
				nullable string
			)
			if err := rows.Scan(&col.Name, &col.DataType, &col.Length, &nullable, &col.Position); err != nil {
				return fmt.Errorf("scan column: %w", err)
			}
			col.Nullable = nullable == "Y"
			columns = append(columns, col)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterate columns: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return columns, nil
}

// PrimaryKey returns the primary key columns of a table ordered by key position.
func (r *Reader) PrimaryKey(ctx context.Context, table string) ([]string, error) {
	ownerCond, ownerArgs := r.ownerClause("ac.owner", 1)
	query := fmt.Sprintf(`
		SELECT acc.column_name
		FROM all_cons_columns acc
		JOIN all_constraints ac ON acc.constraint_name = ac.constraint_name
		WHERE ac.table_name = :1 AND ac.constraint_type = 'P' AND %s
		ORDER BY acc.position`, ownerCond)

	args := append([]any{strings.ToUpper(table)}, ownerArgs...)

	var columns []string
	err := retry.Do(ctx, r.retryCfg, func() error {
		columns = columns[:0]
		rows, err := r.db.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("query primary key: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				return fmt.Errorf("scan primary key column: %w", err)
			}
			columns = append(columns, name)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterate primary key: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return columns, nil
}

// ForeignKeys returns referential constraint column pairs between two tables,
// checked in both directions.
func (r *Reader) ForeignKeys(ctx context.Context, table1, table2 string) ([]models.ForeignKeyPair, error) {
	ownerCond, ownerArgs := r.ownerClause("b.owner", 4)
	query := fmt.Sprintf(`
		SELECT a.column_name AS source_column, c.column_name AS target_column
		FROM all_cons_columns a
		JOIN all_constraints b ON a.constraint_name = b.constraint_name
		JOIN all_cons_columns c ON b.r_constraint_name = c.constraint_name
		WHERE b.constraint_type = 'R'
		AND ((a.table_name = :1 AND c.table_name = :2) OR
		     (a.table_name = :3 AND c.table_name = :4))
		AND %s`, ownerCond)

	t1, t2 := strings.ToUpper(table1), strings.ToUpper(table2)
	args := append([]any{t1, t2, t2, t1}, ownerArgs...)

	var pairs []models.ForeignKeyPair
	err := retry.Do(ctx, r.retryCfg, func() error {
		pairs = pairs[:0]
		rows, err := r.db.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("query foreign keys: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var pair models.ForeignKeyPair
			if err := rows.Scan(&pair.SourceColumn, &pair.TargetColumn); err != nil {
				return fmt.Errorf("scan foreign key: %w", err)
			}
			pairs = append(pairs, pair)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterate foreign keys: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return pairs, nil
}
