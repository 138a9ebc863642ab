package sqlbuilder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatValue(t *testing.T) {
	b := NewBuilder(nil)

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"null", nil, "NULL"},
		{"int", 42, "42"},
		{"float", 12.5, "12.5"},
		{"bool true", true, "1"},
		{"bool false", false, "0"},
		{"iso date string", "2024-01-15", "DATE '2024-01-15'"},
		{"iso datetime T", "2024-01-15T10:30:00", "TIMESTAMP '2024-01-15 10:30:00'"},
		{"iso datetime space", "2024-01-15 10:30:00", "TIMESTAMP '2024-01-15 10:30:00'"},
		{"iso datetime fractional", "2024-01-15T10:30:00.123", "TIMESTAMP '2024-01-15 10:30:00.123'"},
		{"oracle month date", "15-JAN-2024", "TO_DATE('15-JAN-2024', 'DD-MON-YYYY')"},
		{"slash date", "15/01/2024", "TO_DATE('15/01/2024', 'DD/MM/YYYY')"},
		{"numeric string unquoted", "42", "42"},
		{"decimal string unquoted", "3.14", "3.14"},
		{"plain string", "hello", "'hello'"},
		{"embedded quote doubled", "O'Brien", "'O''Brien'"},
		{"json object quoted", `{"a":1}`, `'{"a":1}'`},
		{"json array quoted", `[1,2]`, `'[1,2]'`},
		{"json with quotes escaped", `{"name":"O'Brien"}`, `'{"name":"O''Brien"}'`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.FormatValue(tt.in))
		})
	}
}

func TestFormatValue_TimeValues(t *testing.T) {
	b := NewBuilder(nil)

	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "DATE '2024-01-15'", b.FormatValue(date))

	stamp := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, "TIMESTAMP '2024-01-15 10:30:00'", b.FormatValue(stamp))
}

func TestBuildInsert(t *testing.T) {
	b := NewBuilder(nil)

	sql, err := b.BuildInsert("EMPLOYEES", map[string]any{
		"NAME":      "O'Brien",
		"SALARY":    50000,
		"HIRE_DATE": "2024-01-15",
		"ACTIVE":    true,
	})
	require.NoError(t, err)

	// Columns are emitted in sorted order for deterministic output.
	assert.Equal(t,
		"INSERT INTO EMPLOYEES (ACTIVE, HIRE_DATE, NAME, SALARY) VALUES (1, DATE '2024-01-15', 'O''Brien', 50000)",
		sql)
}

func TestBuildInsert_InvalidTable(t *testing.T) {
	b := NewBuilder(nil)

	_, err := b.BuildInsert("", map[string]any{"A": 1})
	assert.Error(t, err)
}

func TestBuildUpdate(t *testing.T) {
	b := NewBuilder(nil)

	sql, err := b.BuildUpdate("EMPLOYEES", map[string]any{
		"SALARY": 60000,
		"NAME":   "Smith",
	}, "EMPLOYEE_ID = 7")
	require.NoError(t, err)
	assert.Equal(t, "UPDATE EMPLOYEES SET NAME = 'Smith', SALARY = 60000 WHERE EMPLOYEE_ID = 7", sql)
}

func TestBuildUpdate_BlankWhereLoggedNotBlocked(t *testing.T) {
	b := NewBuilder(nil)

	sql, err := b.BuildUpdate("EMPLOYEES", map[string]any{"SALARY": 0}, "")
	require.NoError(t, err)
	assert.Equal(t, "UPDATE EMPLOYEES SET SALARY = 0", sql)
}

func TestInsertStatement(t *testing.T) {
	b := NewBuilder(nil)

	stmt, err := b.InsertStatement("EMPLOYEES", map[string]any{
		"NAME":   "O'Brien",
		"SALARY": 50000,
	})
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO EMPLOYEES (NAME, SALARY) VALUES (:1, :2)", stmt.SQL)
	assert.Equal(t, []any{"O'Brien", 50000}, stmt.Args)
}

func TestUpdateStatement(t *testing.T) {
	b := NewBuilder(nil)

	stmt, err := b.UpdateStatement("EMPLOYEES", map[string]any{
		"SALARY": 60000,
	}, "EMPLOYEE_ID = :id")
	require.NoError(t, err)
	assert.Equal(t, "UPDATE EMPLOYEES SET SALARY = :1 WHERE EMPLOYEE_ID = :id", stmt.SQL)
	assert.Equal(t, []any{60000}, stmt.Args)
}
