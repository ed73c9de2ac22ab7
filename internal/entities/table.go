package entities

// Table is the raw tabular view of a source file, kept for display
type Table struct {
	Name   string     // Table name (e.g., "customers")
	Header []string   // Column names in file order
	Rows   [][]string // Data rows; every row has len(Header) cells
}

// Len returns the number of data rows
func (t *Table) Len() int {
	return len(t.Rows)
}
