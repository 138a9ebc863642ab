package models

import "fmt"

// ColumnInfo describes one column of a table as reported by the Oracle
// catalog. Instances are immutable snapshots; the schema cache hands out
// copies, never shared slices.
type ColumnInfo struct {
	Name     string `json:"name"`
	DataType string `json:"data_type"`
	Length   int    `json:"length"`
	Nullable bool   `json:"nullable"`
	Position int    `json:"position"`
}

// String renders the column the way it would appear in a DDL listing.
func (c ColumnInfo) String() string {
	null := "NOT NULL"
	if c.Nullable {
		null = "NULL"
	}
	return fmt.Sprintf("%s %s(%d) %s", c.Name, c.DataType, c.Length, null)
}

// ForeignKeyPair is one side of a discovered referential constraint between
// two tables.
type ForeignKeyPair struct {
	SourceColumn string `json:"source_column"`
	TargetColumn string `json:"target_column"`
}

// WindowFunctionColumns bundles role-inferred columns suitable for window
// function queries against a table.
type WindowFunctionColumns struct {
	PartitionBy   []string `json:"partition_by,omitempty"`
	OrderBy       []string `json:"order_by,omitempty"`
	SelectColumns []string `json:"select_columns,omitempty"`
}
