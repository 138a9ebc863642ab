package sqlbuilder

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/oraviz-inc/oraviz-engine/pkg/models"
)

var (
	isoDateOnly      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	isoDateTimeT     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}$`)
	isoDateTimeSpace = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`)
	isoDateTimeFrac  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d+$`)
	monthDate        = regexp.MustCompile(`^\d{2}-[A-Z]{3}-\d{4}$`)
	slashDate        = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
)

// FormatValue renders a row value as an Oracle literal. Dispatch order:
// null, number, boolean (1/0), date/time value, then string content sniffing
// (date patterns, fully-numeric text, JSON-bracketed text). Everything falls
// through to a single-quoted string with embedded quotes doubled, so
// formatting itself never fails.
func (b *Builder) FormatValue(raw any) string {
	v := models.ValueOf(raw)

	switch v.Kind {
	case models.KindNull:
		return "NULL"

	case models.KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)

	case models.KindBool:
		if v.Bool {
			return "1"
		}
		return "0"

	case models.KindTime:
		if v.DateOnly {
			return "DATE '" + v.Time.Format("2006-01-02") + "'"
		}
		return "TIMESTAMP '" + v.Time.Format("2006-01-02 15:04:05") + "'"

	default:
		return formatStringValue(v.Str)
	}
}

func formatStringValue(s string) string {
	if models.IsDateString(s) {
		return formatDateLiteral(s)
	}
	if models.IsNumericString(s) {
		return s
	}
	// JSON-bracketed text gets no structural validation; it stays a quoted
	// string either way.
	return quoteString(s)
}

func formatDateLiteral(s string) string {
	switch {
	case isoDateOnly.MatchString(s):
		return "DATE '" + s + "'"
	case isoDateTimeT.MatchString(s), isoDateTimeFrac.MatchString(s):
		return "TIMESTAMP '" + strings.Replace(s, "T", " ", 1) + "'"
	case isoDateTimeSpace.MatchString(s):
		return "TIMESTAMP '" + s + "'"
	case monthDate.MatchString(s):
		return "TO_DATE('" + s + "', 'DD-MON-YYYY')"
	case slashDate.MatchString(s):
		return "TO_DATE('" + s + "', 'DD/MM/YYYY')"
	default:
		return quoteString(s)
	}
}

func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// BuildInsert builds an INSERT statement with values inlined as Oracle
// literals. Column names are escaped individually and emitted in sorted
// order so output is deterministic. Use InsertStatement for anything that
// will actually be executed.
func (b *Builder) BuildInsert(table string, row map[string]any) (string, error) {
	if err := validateTableName(table); err != nil {
		return "", err
	}

	name, err := escapeIdentifier(table)
	if err != nil {
		return "", err
	}

	columns, values, err := b.orderedColumns(row)
	if err != nil {
		return "", err
	}

	literals := make([]string, len(values))
	for i, v := range values {
		literals[i] = b.FormatValue(v)
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		name, strings.Join(columns, ", "), strings.Join(literals, ", "))

	b.logger.Debug("generated INSERT SQL", zap.String("table", table))
	return sql, nil
}

// BuildUpdate builds an UPDATE statement with values inlined as Oracle
// literals. A blank WHERE clause is logged as a warning, not blocked: the
// statement would update every row. Use UpdateStatement for anything that
// will actually be executed.
func (b *Builder) BuildUpdate(table string, row map[string]any, whereClause string) (string, error) {
	if err := validateTableName(table); err != nil {
		return "", err
	}

	name, err := escapeIdentifier(table)
	if err != nil {
		return "", err
	}

	columns, values, err := b.orderedColumns(row)
	if err != nil {
		return "", err
	}

	setParts := make([]string, len(columns))
	for i := range columns {
		setParts[i] = columns[i] + " = " + b.FormatValue(values[i])
	}

	sql := fmt.Sprintf("UPDATE %s SET %s", name, strings.Join(setParts, ", "))

	if strings.TrimSpace(whereClause) != "" {
		if hasSemicolonOutsideStrings(whereClause) {
			b.logger.Warn("semicolon in pass-through WHERE clause",
				zap.String("table", table))
		}
		sql += " WHERE " + whereClause
	} else {
		b.logger.Warn("UPDATE without WHERE clause would affect every row",
			zap.String("table", table))
	}

	b.logger.Debug("generated UPDATE SQL", zap.String("table", table))
	return sql, nil
}

// Statement is SQL text with positionally bound parameters, the execution
// counterpart of the inline-literal builders: identifiers are still escaped
// into the text, but every value travels as a bind argument.
type Statement struct {
	SQL  string
	Args []any
}

// InsertStatement builds a bound INSERT with Oracle :n placeholders.
func (b *Builder) InsertStatement(table string, row map[string]any) (*Statement, error) {
	if err := validateTableName(table); err != nil {
		return nil, err
	}

	name, err := escapeIdentifier(table)
	if err != nil {
		return nil, err
	}

	columns, values, err := b.orderedColumns(row)
	if err != nil {
		return nil, err
	}

	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = ":" + strconv.Itoa(i+1)
	}

	return &Statement{
		SQL: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			name, strings.Join(columns, ", "), strings.Join(placeholders, ", ")),
		Args: values,
	}, nil
}

// UpdateStatement builds a bound UPDATE with Oracle :n placeholders for the
// SET values. The WHERE clause still passes through verbatim; a blank one is
// logged the same way as BuildUpdate.
func (b *Builder) UpdateStatement(table string, row map[string]any, whereClause string) (*Statement, error) {
	if err := validateTableName(table); err != nil {
		return nil, err
	}

	name, err := escapeIdentifier(table)
	if err != nil {
		return nil, err
	}

	columns, values, err := b.orderedColumns(row)
	if err != nil {
		return nil, err
	}

	setParts := make([]string, len(columns))
	for i := range columns {
		setParts[i] = fmt.Sprintf("%s = :%d", columns[i], i+1)
	}

	sql := fmt.Sprintf("UPDATE %s SET %s", name, strings.Join(setParts, ", "))
	if strings.TrimSpace(whereClause) != "" {
		sql += " WHERE " + whereClause
	} else {
		b.logger.Warn("UPDATE without WHERE clause would affect every row",
			zap.String("table", table))
	}

	return &Statement{SQL: sql, Args: values}, nil
}

// orderedColumns returns escaped column names in sorted key order alongside
// the matching values.
func (b *Builder) orderedColumns(row map[string]any) ([]string, []any, error) {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	columns := make([]string, len(keys))
	values := make([]any, len(keys))
	for i, k := range keys {
		col, err := escapeIdentifier(k)
		if err != nil {
			return nil, nil, err
		}
		columns[i] = col
		values[i] = row[k]
	}
	return columns, values, nil
}
