// Package schema discovers and caches table metadata from the Oracle catalog
// and infers column roles and join paths from it. Catalog failures degrade to
// "no information": callers get empty results and proceed with reduced
// inference, never an error.
package schema

import (
	"context"
	"fmt"
	"strings"
	"sync"

	libinjection "github.com/corazawaf/libinjection-go"
	"github.com/texttheater/golang-levenshtein/levenshtein"
	"go.uber.org/zap"

	"github.com/oraviz-inc/oraviz-engine/pkg/adapters/catalog"
	"github.com/oraviz-inc/oraviz-engine/pkg/models"
)

// Discovery inspects table metadata and infers semantic column roles.
// The schema cache is safe for concurrent use: reads take a shared lock and
// return copies, and a cache miss issues exactly one catalog query even under
// concurrent first access.
type Discovery struct {
	reader catalog.Reader
	logger *zap.Logger

	mu    sync.RWMutex
	cache map[string][]models.ColumnInfo
}

// NewDiscovery creates a Discovery over a catalog reader.
// If logger is nil, a no-op logger is used.
func NewDiscovery(reader catalog.Reader, logger *zap.Logger) *Discovery {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Discovery{
		reader: reader,
		logger: logger.Named("schema"),
		cache:  make(map[string][]models.ColumnInfo),
	}
}

// GetTableSchema returns the columns of a table ordered by ordinal position.
// Results are cached per uppercased table name until ClearCache or
// Invalidate. On catalog failure it logs and returns an empty slice; callers
// must treat empty as "schema unknown", not "table has no columns".
func (d *Discovery) GetTableSchema(ctx context.Context, table string) []models.ColumnInfo {
	key := strings.ToUpper(table)

	d.mu.RLock()
	cached, ok := d.cache[key]
	d.mu.RUnlock()
	if ok {
		return copyColumns(cached)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	// Another request may have populated the entry while we waited.
	if cached, ok := d.cache[key]; ok {
		return copyColumns(cached)
	}

	columns, err := d.reader.Columns(ctx, key)
	if err != nil {
		d.logger.Warn("failed to get table schema",
			zap.String("table", key),
			zap.Error(err))
		return nil
	}

	d.cache[key] = columns
	return copyColumns(columns)
}

func copyColumns(columns []models.ColumnInfo) []models.ColumnInfo {
	out := make([]models.ColumnInfo, len(columns))
	copy(out, columns)
	return out
}

// ClearCache drops all cached schemas.
func (d *Discovery) ClearCache() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cache = make(map[string][]models.ColumnInfo)
}

// Invalidate drops the cached schema for a single table.
func (d *Discovery) Invalidate(table string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.cache, strings.ToUpper(table))
}

// ColumnsByType returns the names of columns whose declared type contains the
// given type token.
func (d *Discovery) ColumnsByType(ctx context.Context, table, dataType string) []string {
	token := strings.ToUpper(dataType)
	var names []string
	for _, col := range d.GetTableSchema(ctx, table) {
		if strings.Contains(col.DataType, token) {
			names = append(names, col.Name)
		}
	}
	return names
}

// NumericColumns returns NUMBER-family columns suitable for analytics.
func (d *Discovery) NumericColumns(ctx context.Context, table string) []string {
	return d.ColumnsByType(ctx, table, "NUMBER")
}

// StringColumns returns character and large-text columns.
func (d *Discovery) StringColumns(ctx context.Context, table string) []string {
	var names []string
	for _, col := range d.GetTableSchema(ctx, table) {
		if strings.HasPrefix(col.DataType, "VARCHAR") ||
			strings.HasPrefix(col.DataType, "CHAR") ||
			strings.HasPrefix(col.DataType, "NVARCHAR") ||
			strings.HasPrefix(col.DataType, "NCHAR") ||
			col.DataType == "CLOB" {
			names = append(names, col.Name)
		}
	}
	return names
}

// DateColumns returns date and timestamp columns.
func (d *Discovery) DateColumns(ctx context.Context, table string) []string {
	var names []string
	for _, col := range d.GetTableSchema(ctx, table) {
		if strings.Contains(col.DataType, "DATE") || strings.Contains(col.DataType, "TIMESTAMP") {
			names = append(names, col.Name)
		}
	}
	return names
}

// FindColumnByPattern returns the first column matching the ordered pattern
// list. A column matches when its name contains the pattern or the pattern
// contains the name, case-insensitive. Pattern order takes priority over
// column order. Returns "" when nothing matches.
func (d *Discovery) FindColumnByPattern(ctx context.Context, table string, patterns []string) string {
	columns := d.GetTableSchema(ctx, table)
	for _, pattern := range patterns {
		p := strings.ToUpper(pattern)
		for _, col := range columns {
			name := strings.ToUpper(col.Name)
			if strings.Contains(name, p) || strings.Contains(p, name) {
				return col.Name
			}
		}
	}
	return ""
}

// editOptions counts substitutions as single edits so one-letter typos score
// close to the exact name.
var editOptions = levenshtein.Options{
	InsCost: 1,
	DelCost: 1,
	SubCost: 1,
	Matches: levenshtein.IdenticalRunes,
}

// FindColumnFuzzy returns the column whose name is closest to target by
// normalized Levenshtein similarity, provided the similarity exceeds the
// threshold. Used as a last resort after substring matching fails.
func (d *Discovery) FindColumnFuzzy(ctx context.Context, table, target string, threshold float64) string {
	columns := d.GetTableSchema(ctx, table)
	t := strings.ToUpper(target)

	best := ""
	bestScore := threshold
	for _, col := range columns {
		name := strings.ToUpper(col.Name)
		maxLen := len(name)
		if len(t) > maxLen {
			maxLen = len(t)
		}
		if maxLen == 0 {
			continue
		}
		distance := levenshtein.DistanceForStrings([]rune(name), []rune(t), editOptions)
		score := 1.0 - float64(distance)/float64(maxLen)
		if score > bestScore {
			best = col.Name
			bestScore = score
		}
	}
	return best
}

// FindIDColumn attempts an authoritative primary key lookup, falling back to
// pattern matching on ID-like names.
func (d *Discovery) FindIDColumn(ctx context.Context, table string) string {
	pk, err := d.reader.PrimaryKey(ctx, strings.ToUpper(table))
	if err != nil {
		d.logger.Debug("primary key lookup failed, falling back to patterns",
			zap.String("table", table),
			zap.Error(err))
	} else if len(pk) > 0 {
		return pk[0]
	}

	return d.FindColumnByPattern(ctx, table, IDPatterns)
}

// FindDepartmentColumn returns the grouping/category column, if any.
func (d *Discovery) FindDepartmentColumn(ctx context.Context, table string) string {
	return d.FindColumnByPattern(ctx, table, DepartmentPatterns)
}

// FindManagerColumn returns the parent-reference column for hierarchical
// queries, if any.
func (d *Discovery) FindManagerColumn(ctx context.Context, table string) string {
	return d.FindColumnByPattern(ctx, table, ManagerPatterns)
}

// FindNameColumn returns the display-name column, if any.
func (d *Discovery) FindNameColumn(ctx context.Context, table string) string {
	return d.FindColumnByPattern(ctx, table, NamePatterns)
}

// FindEmailColumn returns the email column, if any.
func (d *Discovery) FindEmailColumn(ctx context.Context, table string) string {
	return d.FindColumnByPattern(ctx, table, EmailPatterns)
}

// FindAmountColumn returns the monetary/measure column, if any.
func (d *Discovery) FindAmountColumn(ctx context.Context, table string) string {
	return d.FindColumnByPattern(ctx, table, AmountPatterns)
}

// AutoDiscoverWindowColumns composes the role finders into a column bundle
// for window function queries: partition by the category role, order by the
// amount role descending (else the first date column descending), and select
// the deduplicated id/name/amount/partition columns that resolved.
func (d *Discovery) AutoDiscoverWindowColumns(ctx context.Context, table string) models.WindowFunctionColumns {
	var result models.WindowFunctionColumns

	partitionCol := d.FindDepartmentColumn(ctx, table)
	if partitionCol != "" {
		result.PartitionBy = []string{partitionCol}
	}

	amountCol := d.FindAmountColumn(ctx, table)
	if amountCol != "" {
		result.OrderBy = []string{amountCol + " DESC"}
	} else if dateCols := d.DateColumns(ctx, table); len(dateCols) > 0 {
		result.OrderBy = []string{dateCols[0] + " DESC"}
	}

	var selected []string
	if idCol := d.FindIDColumn(ctx, table); idCol != "" {
		selected = append(selected, idCol)
	}
	if nameCol := d.FindNameColumn(ctx, table); nameCol != "" {
		selected = append(selected, nameCol)
	}
	if amountCol != "" {
		selected = append(selected, amountCol)
	}
	if partitionCol != "" && !contains(selected, partitionCol) {
		selected = append(selected, partitionCol)
	}
	result.SelectColumns = selected

	return result
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// AutoDiscoverJoinConditions returns join predicates linking each table after
// the first back to the first. Referential constraints are authoritative and
// tried first in both directions; the common-key heuristic requires the exact
// same candidate column name in both schemas. Tables with no discoverable
// relationship contribute no predicate.
func (d *Discovery) AutoDiscoverJoinConditions(ctx context.Context, tables []string) []string {
	if len(tables) < 2 {
		return nil
	}

	var conditions []string
	first := tables[0]

	for _, other := range tables[1:] {
		if cond := d.findJoinCondition(ctx, first, other); cond != "" {
			conditions = append(conditions, cond)
			continue
		}
		if key := d.findCommonJoinKey(ctx, first, other); key != "" {
			conditions = append(conditions, fmt.Sprintf("%s.%s = %s.%s",
				tableAlias(first), key, tableAlias(other), key))
		}
	}

	return conditions
}

func (d *Discovery) findJoinCondition(ctx context.Context, table1, table2 string) string {
	pairs, err := d.reader.ForeignKeys(ctx, strings.ToUpper(table1), strings.ToUpper(table2))
	if err != nil {
		d.logger.Debug("foreign key lookup failed, falling back to common keys",
			zap.String("table1", table1),
			zap.String("table2", table2),
			zap.Error(err))
		return ""
	}
	if len(pairs) == 0 {
		return ""
	}

	fk := pairs[0]
	return fmt.Sprintf("%s.%s = %s.%s",
		tableAlias(table1), fk.SourceColumn, tableAlias(table2), fk.TargetColumn)
}

func (d *Discovery) findCommonJoinKey(ctx context.Context, table1, table2 string) string {
	set1 := columnNameSet(d.GetTableSchema(ctx, table1))
	set2 := columnNameSet(d.GetTableSchema(ctx, table2))

	for _, candidate := range JoinKeyCandidates {
		if set1[candidate] && set2[candidate] {
			return candidate
		}
	}
	return ""
}

func columnNameSet(columns []models.ColumnInfo) map[string]bool {
	set := make(map[string]bool, len(columns))
	for _, col := range columns {
		set[strings.ToUpper(col.Name)] = true
	}
	return set
}

func tableAlias(table string) string {
	if table == "" {
		return "t"
	}
	return strings.ToLower(table[:1])
}

// BuildSafeSelectQuery builds a SELECT restricted to columns that actually
// exist in the table's schema (case-insensitive); if none survive, it selects
// all columns. WHERE, ORDER BY and row-limit clauses are appended only when
// non-empty.
//
// The column filter is a safety net against selecting non-existent columns,
// not an injection defense: where and orderBy pass through verbatim. Both are
// screened with libinjection and suspicious text is logged, but never blocked.
func (d *Discovery) BuildSafeSelectQuery(ctx context.Context, table string, requestedColumns []string, where, orderBy string, limit int) string {
	available := columnNameSet(d.GetTableSchema(ctx, table))

	var valid []string
	for _, col := range requestedColumns {
		if available[strings.ToUpper(col)] {
			valid = append(valid, col)
		}
	}
	if len(valid) == 0 {
		valid = []string{"*"}
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(valid, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(table)

	if strings.TrimSpace(where) != "" {
		d.warnOnInjection(table, "where", where)
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
	}

	if strings.TrimSpace(orderBy) != "" {
		d.warnOnInjection(table, "order_by", orderBy)
		sb.WriteString(" ORDER BY ")
		sb.WriteString(orderBy)
	}

	if limit > 0 {
		fmt.Fprintf(&sb, " FETCH FIRST %d ROWS ONLY", limit)
	}

	return sb.String()
}

func (d *Discovery) warnOnInjection(table, clause, text string) {
	if isSQLi, fingerprint := libinjection.IsSQLi(text); isSQLi {
		d.logger.Warn("injection pattern in pass-through clause",
			zap.String("table", table),
			zap.String("clause", clause),
			zap.String("fingerprint", string(fingerprint)))
	}
}
