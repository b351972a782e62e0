package schema

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-chute/chute"
	cerrors "github.com/go-chute/chute/errors"
)

func TestCreateSchemaPreservesOrder(t *testing.T) {
	s, err := CreateSchema(
		chute.ColumnSchema{Name: "item_id", Dtype: chute.Int64, Role: chute.Categorical},
		chute.ColumnSchema{Name: "price", Dtype: chute.Float32, Role: chute.Continuous},
		chute.ColumnSchema{Name: "clicked", Dtype: chute.Int32, Role: chute.Label},
	)
	require.Nil(t, err)
	require.Equal(t, 3, s.NumColumns())
	require.Equal(t, []string{"item_id", "price", "clicked"}, s.ColumnNames())
	require.True(t, s.HasColumn("price"))
	require.False(t, s.HasColumn("missing"))
}

func TestCreateSchemaRejectsDuplicates(t *testing.T) {
	_, err := CreateSchema(
		chute.ColumnSchema{Name: "item_id", Dtype: chute.Int64, Role: chute.Categorical},
		chute.ColumnSchema{Name: "item_id", Dtype: chute.Int32, Role: chute.Categorical},
	)
	require.NotNil(t, err)
}

func TestSelectByRole(t *testing.T) {
	s, err := CreateSchema(
		chute.ColumnSchema{Name: "item_id", Dtype: chute.Int64, Role: chute.Categorical},
		chute.ColumnSchema{Name: "price", Dtype: chute.Float32, Role: chute.Continuous},
		chute.ColumnSchema{Name: "cat_id", Dtype: chute.Int64, Role: chute.Categorical},
		chute.ColumnSchema{Name: "clicked", Dtype: chute.Int32, Role: chute.Label},
	)
	require.Nil(t, err)
	require.Equal(t, []string{"item_id", "cat_id"}, s.SelectByRole(chute.Categorical))
	require.Equal(t, []string{"price"}, s.SelectByRole(chute.Continuous))
	require.Equal(t, []string{"clicked"}, s.SelectByRole(chute.Label))
}

func TestListColumns(t *testing.T) {
	s, err := CreateSchema(
		chute.ColumnSchema{Name: "item_id", Dtype: chute.Int64, Role: chute.Categorical},
		chute.ColumnSchema{Name: "genres", Dtype: chute.Int64, Role: chute.Categorical, IsList: true, IsRagged: true},
	)
	require.Nil(t, err)
	require.Equal(t, []string{"genres"}, s.ListColumns())
}

func TestSelectSubset(t *testing.T) {
	s, err := CreateSchema(
		chute.ColumnSchema{Name: "item_id", Dtype: chute.Int64, Role: chute.Categorical},
		chute.ColumnSchema{Name: "price", Dtype: chute.Float32, Role: chute.Continuous},
		chute.ColumnSchema{Name: "clicked", Dtype: chute.Int32, Role: chute.Label},
	)
	require.Nil(t, err)

	sub, err := s.Select([]string{"price", "clicked"})
	require.Nil(t, err)
	require.Equal(t, []string{"price", "clicked"}, sub.ColumnNames())

	_, err = s.Select([]string{"missing"})
	require.NotNil(t, err)
}

func TestColumnClassResolution(t *testing.T) {
	scalar := chute.ColumnSchema{Name: "a", Dtype: chute.Int64, Role: chute.Categorical}
	require.Equal(t, chute.Scalar, scalar.Class())

	fixed := chute.ColumnSchema{Name: "b", Dtype: chute.Int64, Role: chute.Categorical, IsList: true, ValueCount: &chute.ValueCount{Min: 4, Max: 4}}
	require.Equal(t, chute.FixedList, fixed.Class())

	ragged := chute.ColumnSchema{Name: "c", Dtype: chute.Int64, Role: chute.Categorical, IsList: true, IsRagged: true}
	require.Equal(t, chute.RaggedList, ragged.Class())
}

func TestValidateAcceptsUsableSchema(t *testing.T) {
	s, err := CreateSchema(
		chute.ColumnSchema{Name: "item_id", Dtype: chute.Int64, Role: chute.Categorical},
		chute.ColumnSchema{Name: "genres", Dtype: chute.Int64, Role: chute.Categorical, IsList: true, IsRagged: true, ValueCount: &chute.ValueCount{Min: 1, Max: 5}},
	)
	require.Nil(t, err)
	require.Nil(t, Validate(s))
}

func TestValidateRejectsEmptyRoles(t *testing.T) {
	s, err := CreateSchema()
	require.Nil(t, err)
	err = Validate(s)
	require.IsType(t, cerrors.SchemaValidationError{}, err)
}

func TestValidateRejectsUnboundedDenseList(t *testing.T) {
	s, err := CreateSchema(
		chute.ColumnSchema{Name: "embedding", Dtype: chute.Float32, Role: chute.Continuous, IsList: true},
	)
	require.Nil(t, err)
	err = Validate(s)
	require.IsType(t, cerrors.SchemaValidationError{}, err)
	require.Contains(t, err.Error(), "embedding")
}

func TestValidateRejectsInvertedValueCount(t *testing.T) {
	s, err := CreateSchema(
		chute.ColumnSchema{Name: "item_id", Dtype: chute.Int64, Role: chute.Categorical},
		chute.ColumnSchema{Name: "genres", Dtype: chute.Int64, Role: chute.Categorical, IsList: true, IsRagged: true, ValueCount: &chute.ValueCount{Min: 6, Max: 2}},
	)
	require.Nil(t, err)
	err = Validate(s)
	require.IsType(t, cerrors.SchemaValidationError{}, err)
}
