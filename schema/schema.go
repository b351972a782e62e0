package schema

import (
	"fmt"

	"github.com/go-chute/chute"
	cerrors "github.com/go-chute/chute/errors"
	"github.com/hashicorp/go-multierror"
)

// schemaImpl is Chute's internal implementation of Schema
type schemaImpl struct {
	cols  map[string]chute.ColumnSchema
	order []string
}

// CreateSchema builds a Schema from ColumnSchemas, preserving declaration order
func CreateSchema(cols ...chute.ColumnSchema) (chute.Schema, error) {
	s := &schemaImpl{
		cols:  make(map[string]chute.ColumnSchema, len(cols)),
		order: make([]string, 0, len(cols)),
	}
	for _, col := range cols {
		if _, exists := s.cols[col.Name]; exists {
			return nil, fmt.Errorf("Schema already contains column with name %s", col.Name)
		}
		s.cols[col.Name] = col
		s.order = append(s.order, col.Name)
	}
	return s, nil
}

// NumColumns returns the number of columns in this Schema
func (s *schemaImpl) NumColumns() int {
	return len(s.order)
}

// ColumnNames returns the names in this Schema, in declaration order
func (s *schemaImpl) ColumnNames() []string {
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}

// HasColumn returns true iff this Schema contains a column with the given name
func (s *schemaImpl) HasColumn(name string) bool {
	_, ok := s.cols[name]
	return ok
}

// Column returns the ColumnSchema for a given column name
func (s *schemaImpl) Column(name string) (chute.ColumnSchema, error) {
	col, ok := s.cols[name]
	if !ok {
		return chute.ColumnSchema{}, fmt.Errorf("Schema does not contain column with name %s", name)
	}
	return col, nil
}

// SelectByRole returns the names of all columns with the given Role, in declaration order
func (s *schemaImpl) SelectByRole(role chute.Role) []string {
	names := make([]string, 0, len(s.order))
	for _, name := range s.order {
		if s.cols[name].Role == role {
			names = append(names, name)
		}
	}
	return names
}

// ListColumns returns the names of all list columns, in declaration order
func (s *schemaImpl) ListColumns() []string {
	names := make([]string, 0, len(s.order))
	for _, name := range s.order {
		if s.cols[name].IsList {
			names = append(names, name)
		}
	}
	return names
}

// Select produces a new Schema containing only the named columns
func (s *schemaImpl) Select(names []string) (chute.Schema, error) {
	cols := make([]chute.ColumnSchema, 0, len(names))
	for _, name := range names {
		col, err := s.Column(name)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	return CreateSchema(cols...)
}

// Validate confirms a Schema can serve the loader, aggregating every problem
// found into a single SchemaValidationError. Called once at loader
// construction; the loader never re-validates per row.
func Validate(s chute.Schema) error {
	var errs *multierror.Error
	if len(s.SelectByRole(chute.Categorical))+len(s.SelectByRole(chute.Continuous))+len(s.SelectByRole(chute.Label)) == 0 {
		errs = multierror.Append(errs, fmt.Errorf("no categorical, continuous or label columns are present"))
	}
	for _, name := range s.ColumnNames() {
		col, err := s.Column(name)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		if col.Class() == chute.FixedList && (col.ValueCount == nil || col.ValueCount.Max <= 0) {
			errs = multierror.Append(errs, fmt.Errorf("dense list column %s does not define a max value count", name))
		}
		if col.ValueCount != nil && col.ValueCount.Min > col.ValueCount.Max {
			errs = multierror.Append(errs, fmt.Errorf("column %s has an inverted value count range [%d, %d]", name, col.ValueCount.Min, col.ValueCount.Max))
		}
	}
	if errs.ErrorOrNil() != nil {
		return cerrors.SchemaValidationError{Errs: errs}
	}
	return nil
}
