package jsonl

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/pierrec/lz4"
	"github.com/stretchr/testify/require"

	"github.com/go-chute/chute"
	cerrors "github.com/go-chute/chute/errors"
	"github.com/go-chute/chute/schema"
)

func testSchema(t *testing.T) chute.Schema {
	s, err := schema.CreateSchema(
		chute.ColumnSchema{Name: "item_id", Dtype: chute.Int64, Role: chute.Categorical},
		chute.ColumnSchema{Name: "price", Dtype: chute.Float32, Role: chute.Continuous},
		chute.ColumnSchema{Name: "genres", Dtype: chute.Int64, Role: chute.Categorical, IsList: true, IsRagged: true},
	)
	require.Nil(t, err)
	return s
}

func writePlain(t *testing.T, dir string, name string, lines []string) string {
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.Nil(t, err)
	for _, line := range lines {
		_, err = fmt.Fprintln(f, line)
		require.Nil(t, err)
	}
	require.Nil(t, f.Close())
	return path
}

func writeCompressed(t *testing.T, dir string, name string, lines []string) string {
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.Nil(t, err)
	w := lz4.NewWriter(f)
	for _, line := range lines {
		_, err = fmt.Fprintln(w, line)
		require.Nil(t, err)
	}
	require.Nil(t, w.Close())
	require.Nil(t, f.Close())
	return path
}

func TestReadPlainPartition(t *testing.T) {
	dir := t.TempDir()
	path := writePlain(t, dir, "part-0.jsonl", []string{
		`{"item_id": 1, "price": 9.5, "genres": [3, 4]}`,
		``,
		`{"item_id": 2, "price": 0.5, "genres": []}`,
	})

	source, err := CreateDataSource(testSchema(t), []string{path})
	require.Nil(t, err)
	require.Equal(t, 1, source.NumPartitions())

	stream, err := source.Iterate([]int{0}, 1, []string{"item_id", "price", "genres"})
	require.Nil(t, err)

	f, err := stream.NextRowGroup()
	require.Nil(t, err)
	require.Equal(t, 2, f.NumRows())

	col, err := f.Column("item_id")
	require.Nil(t, err)
	data, err := col.Data()
	require.Nil(t, err)
	require.Equal(t, []int64{1, 2}, data)

	col, err = f.Column("price")
	require.Nil(t, err)
	data, err = col.Data()
	require.Nil(t, err)
	require.Equal(t, []float32{9.5, 0.5}, data)

	col, err = f.Column("genres")
	require.Nil(t, err)
	leaves, offsets, err := col.ListLayout()
	require.Nil(t, err)
	require.Equal(t, []int64{3, 4}, leaves)
	require.Equal(t, []int64{0, 2, 2}, offsets)
}

func TestReadCompressedPartition(t *testing.T) {
	dir := t.TempDir()
	path := writeCompressed(t, dir, "part-0.jsonl.lz4", []string{
		`{"item_id": 7, "price": 1.0, "genres": [1]}`,
	})

	source, err := CreateDataSource(testSchema(t), []string{path})
	require.Nil(t, err)

	stream, err := source.Iterate([]int{0}, 1, []string{"item_id"})
	require.Nil(t, err)
	f, err := stream.NextRowGroup()
	require.Nil(t, err)
	require.Equal(t, 1, f.NumRows())

	col, err := f.Column("item_id")
	require.Nil(t, err)
	data, err := col.Data()
	require.Nil(t, err)
	require.Equal(t, []int64{7}, data)
}

func TestNumRowsCountsLines(t *testing.T) {
	dir := t.TempDir()
	first := writePlain(t, dir, "part-0.jsonl", []string{
		`{"item_id": 1, "price": 1.0, "genres": []}`,
		`{"item_id": 2, "price": 2.0, "genres": []}`,
	})
	second := writePlain(t, dir, "part-1.jsonl", []string{
		`{"item_id": 3, "price": 3.0, "genres": []}`,
	})

	source, err := CreateDataSource(testSchema(t), []string{first, second})
	require.Nil(t, err)

	rows, err := source.NumRows([]int{0, 1})
	require.Nil(t, err)
	require.Equal(t, int64(3), rows)

	// counts are cached; deleting the file afterwards does not matter
	require.Nil(t, os.Remove(second))
	rows, err = source.NumRows([]int{1})
	require.Nil(t, err)
	require.Equal(t, int64(1), rows)
}

func TestColumnRestriction(t *testing.T) {
	dir := t.TempDir()
	path := writePlain(t, dir, "part-0.jsonl", []string{
		`{"item_id": 1, "price": 1.0, "genres": [2]}`,
	})
	source, err := CreateDataSource(testSchema(t), []string{path})
	require.Nil(t, err)

	stream, err := source.Iterate([]int{0}, 1, []string{"price"})
	require.Nil(t, err)
	f, err := stream.NextRowGroup()
	require.Nil(t, err)
	require.Equal(t, []string{"price"}, f.Schema().ColumnNames())
}

func TestMissingColumnFailsPartition(t *testing.T) {
	dir := t.TempDir()
	path := writePlain(t, dir, "part-0.jsonl", []string{
		`{"item_id": 1, "genres": []}`,
	})
	source, err := CreateDataSource(testSchema(t), []string{path})
	require.Nil(t, err)

	stream, err := source.Iterate([]int{0}, 1, []string{"item_id", "price"})
	require.Nil(t, err)
	_, err = stream.NextRowGroup()
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "price")
}

func TestNonArrayListValueFailsPartition(t *testing.T) {
	dir := t.TempDir()
	path := writePlain(t, dir, "part-0.jsonl", []string{
		`{"item_id": 1, "price": 1.0, "genres": 5}`,
	})
	source, err := CreateDataSource(testSchema(t), []string{path})
	require.Nil(t, err)

	stream, err := source.Iterate([]int{0}, 1, []string{"genres"})
	require.Nil(t, err)
	_, err = stream.NextRowGroup()
	require.NotNil(t, err)
}

func TestStreamExhaustion(t *testing.T) {
	dir := t.TempDir()
	path := writePlain(t, dir, "part-0.jsonl", []string{
		`{"item_id": 1, "price": 1.0, "genres": []}`,
	})
	source, err := CreateDataSource(testSchema(t), []string{path})
	require.Nil(t, err)

	stream, err := source.Iterate([]int{0}, 2, []string{"item_id"})
	require.Nil(t, err)
	fired := 0
	stream.OnEnd(func() { fired++ })
	served := 0
	for stream.HasNextRowGroup() {
		_, err = stream.NextRowGroup()
		require.Nil(t, err)
		served++
	}
	require.Equal(t, 2, served)
	require.Equal(t, 1, fired)
	_, err = stream.NextRowGroup()
	require.IsType(t, cerrors.NoMorePartitionsError{}, err)
	require.Equal(t, 1, fired)
}

func TestCreateDataSourceValidation(t *testing.T) {
	_, err := CreateDataSource(testSchema(t), nil)
	require.NotNil(t, err)
}
