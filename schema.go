package chute

// ValueCount bounds the per-row sequence length of a list column
type ValueCount struct {
	Min int
	Max int
}

// ColumnSchema describes one dataset column's contract. ColumnSchemas are
// supplied at loader construction and are immutable thereafter.
type ColumnSchema struct {
	Name       string
	Dtype      Dtype
	Role       Role
	IsList     bool
	IsRagged   bool
	ValueCount *ValueCount
}

// Class resolves this column's closed variant
func (c ColumnSchema) Class() Class {
	if !c.IsList {
		return Scalar
	}
	if c.IsRagged {
		return RaggedList
	}
	return FixedList
}

// Schema is an ordered mapping from column names to ColumnSchemas. It allows
// one to obtain column contracts by name, select columns by role, etc.
type Schema interface {
	// NumColumns returns the number of columns in this Schema
	NumColumns() int
	// ColumnNames returns the names in this Schema, in declaration order
	ColumnNames() []string
	// HasColumn returns true iff this Schema contains a column with the given name
	HasColumn(name string) bool
	// Column returns the ColumnSchema for a given column name
	Column(name string) (ColumnSchema, error)
	// SelectByRole returns the names of all columns with the given Role, in declaration order
	SelectByRole(role Role) []string
	// ListColumns returns the names of all list columns, in declaration order
	ListColumns() []string
	// Select produces a new Schema containing only the named columns
	Select(names []string) (Schema, error)
}
