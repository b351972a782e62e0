package memory

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-chute/chute"
	cerrors "github.com/go-chute/chute/errors"
	"github.com/go-chute/chute/frame"
	"github.com/go-chute/chute/schema"
)

func testSource(t *testing.T) chute.Dataset {
	s, err := schema.CreateSchema(
		chute.ColumnSchema{Name: "id", Dtype: chute.Int64, Role: chute.Categorical},
		chute.ColumnSchema{Name: "score", Dtype: chute.Float32, Role: chute.Label},
	)
	require.Nil(t, err)
	parts := make([]chute.Frame, 3)
	for i := range parts {
		parts[i], err = frame.CreateFrame(s, map[string]frame.ColumnData{
			"id":    {Data: []int64{int64(i * 2), int64(i*2 + 1)}},
			"score": {Data: []float32{0, 1}},
		})
		require.Nil(t, err)
	}
	source, err := CreateDataSource(s, parts)
	require.Nil(t, err)
	return source
}

func TestCreateDataSource(t *testing.T) {
	source := testSource(t)
	require.Equal(t, 3, source.NumPartitions())

	rows, err := source.NumRows([]int{0, 1, 2})
	require.Nil(t, err)
	require.Equal(t, int64(6), rows)

	rows, err = source.NumRows([]int{2})
	require.Nil(t, err)
	require.Equal(t, int64(2), rows)

	_, err = source.NumRows([]int{3})
	require.NotNil(t, err)
}

func TestCreateDataSourceRejectsMissingColumns(t *testing.T) {
	full, err := schema.CreateSchema(
		chute.ColumnSchema{Name: "id", Dtype: chute.Int64, Role: chute.Categorical},
		chute.ColumnSchema{Name: "score", Dtype: chute.Float32, Role: chute.Label},
	)
	require.Nil(t, err)
	partial, err := schema.CreateSchema(
		chute.ColumnSchema{Name: "id", Dtype: chute.Int64, Role: chute.Categorical},
	)
	require.Nil(t, err)
	f, err := frame.CreateFrame(partial, map[string]frame.ColumnData{
		"id": {Data: []int64{1}},
	})
	require.Nil(t, err)

	_, err = CreateDataSource(full, []chute.Frame{f})
	require.IsType(t, cerrors.IncompatibleFrameError{}, err)
}

func TestIterateServesIndicesInOrder(t *testing.T) {
	source := testSource(t)
	stream, err := source.Iterate([]int{2, 0}, 1, []string{"id"})
	require.Nil(t, err)

	require.True(t, stream.HasNextRowGroup())
	f, err := stream.NextRowGroup()
	require.Nil(t, err)
	col, err := f.Column("id")
	require.Nil(t, err)
	data, err := col.Data()
	require.Nil(t, err)
	require.Equal(t, []int64{4, 5}, data)

	// restricted to the requested columns
	require.Equal(t, []string{"id"}, f.Schema().ColumnNames())

	f, err = stream.NextRowGroup()
	require.Nil(t, err)
	col, err = f.Column("id")
	require.Nil(t, err)
	data, err = col.Data()
	require.Nil(t, err)
	require.Equal(t, []int64{0, 1}, data)

	require.False(t, stream.HasNextRowGroup())
	_, err = stream.NextRowGroup()
	require.IsType(t, cerrors.NoMorePartitionsError{}, err)
}

func TestIterateRepeatsForEpochs(t *testing.T) {
	source := testSource(t)
	stream, err := source.Iterate([]int{0, 1}, 2, []string{"id"})
	require.Nil(t, err)

	served := 0
	for stream.HasNextRowGroup() {
		_, err := stream.NextRowGroup()
		require.Nil(t, err)
		served++
	}
	require.Equal(t, 4, served)
}

func TestIterateFiresEndListeners(t *testing.T) {
	source := testSource(t)
	stream, err := source.Iterate([]int{0}, 1, []string{"id"})
	require.Nil(t, err)

	fired := 0
	stream.OnEnd(func() { fired++ })

	_, err = stream.NextRowGroup()
	require.Nil(t, err)
	require.Equal(t, 0, fired)

	_, err = stream.NextRowGroup()
	require.IsType(t, cerrors.NoMorePartitionsError{}, err)
	require.Equal(t, 1, fired)

	// listeners fire once
	_, err = stream.NextRowGroup()
	require.IsType(t, cerrors.NoMorePartitionsError{}, err)
	require.Equal(t, 1, fired)
}

func TestHasNextRowGroupFiresEndListeners(t *testing.T) {
	source := testSource(t)
	stream, err := source.Iterate([]int{0}, 1, []string{"id"})
	require.Nil(t, err)

	fired := 0
	stream.OnEnd(func() { fired++ })

	require.True(t, stream.HasNextRowGroup())
	require.Equal(t, 0, fired)

	_, err = stream.NextRowGroup()
	require.Nil(t, err)

	// exhaustion observed through HasNextRowGroup still notifies, once
	require.False(t, stream.HasNextRowGroup())
	require.Equal(t, 1, fired)
	require.False(t, stream.HasNextRowGroup())
	_, err = stream.NextRowGroup()
	require.IsType(t, cerrors.NoMorePartitionsError{}, err)
	require.Equal(t, 1, fired)
}

func TestIterateValidation(t *testing.T) {
	source := testSource(t)
	_, err := source.Iterate([]int{0}, 0, []string{"id"})
	require.NotNil(t, err)
	_, err = source.Iterate([]int{5}, 1, []string{"id"})
	require.NotNil(t, err)
}
