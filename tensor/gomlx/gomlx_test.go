package gomlx

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-chute/chute"
)

func TestFromFlatData(t *testing.T) {
	b := CreateBackend()
	tensor, err := b.FromFlatData(chute.Int64, []int64{1, 2, 3, 4, 5, 6}, 2, 3)
	require.Nil(t, err)
	require.Equal(t, chute.Int64, tensor.Dtype())
	require.Equal(t, []int{2, 3}, tensor.Dims())
	require.Equal(t, 2, tensor.NumRows())
}

func TestFromFlatDataValidation(t *testing.T) {
	b := CreateBackend()

	// dims must cover the buffer exactly
	_, err := b.FromFlatData(chute.Int64, []int64{1, 2, 3}, 2, 2)
	require.NotNil(t, err)

	// buffer element type must match the declared dtype
	_, err = b.FromFlatData(chute.Float32, []int64{1, 2}, 2)
	require.NotNil(t, err)

	_, err = b.FromFlatData(chute.Int64, []int64{1, 2}, -2)
	require.NotNil(t, err)
}

func TestSplitRows(t *testing.T) {
	b := CreateBackend()
	tensor, err := b.FromFlatData(chute.Float32, []float32{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, 5, 2)
	require.Nil(t, err)

	parts, err := b.Split(tensor, []int{2, 2, 1}, 0)
	require.Nil(t, err)
	require.Len(t, parts, 3)
	require.Equal(t, []int{2, 2}, parts[0].Dims())
	require.Equal(t, []int{1, 2}, parts[2].Dims())
	require.Equal(t, []float32{0, 1, 2, 3}, parts[0].(*Tensor).Flat())
	require.Equal(t, []float32{8, 9}, parts[2].(*Tensor).Flat())

	_, err = b.Split(tensor, []int{2, 2}, 0)
	require.NotNil(t, err)
}

func TestSplitCols(t *testing.T) {
	b := CreateBackend()
	tensor, err := b.FromFlatData(chute.Int64, []int64{1, 2, 3, 4, 5, 6}, 2, 3)
	require.Nil(t, err)

	parts, err := b.Split(tensor, []int{1, 1, 1}, 1)
	require.Nil(t, err)
	require.Len(t, parts, 3)

	// single-column results flatten to 1-D
	require.Equal(t, []int{2}, parts[0].Dims())
	require.Equal(t, []int64{1, 4}, parts[0].(*Tensor).Flat())
	require.Equal(t, []int64{3, 6}, parts[2].(*Tensor).Flat())

	wide, err := b.Split(tensor, []int{2, 1}, 1)
	require.Nil(t, err)
	require.Equal(t, []int{2, 2}, wide[0].Dims())
	require.Equal(t, []int64{1, 2, 4, 5}, wide[0].(*Tensor).Flat())
}

func TestSplitRejectsBadAxis(t *testing.T) {
	b := CreateBackend()
	tensor, err := b.FromFlatData(chute.Int64, []int64{1, 2}, 2)
	require.Nil(t, err)
	_, err = b.Split(tensor, []int{2}, 2)
	require.NotNil(t, err)

	// column splits require a 2-D tensor
	_, err = b.Split(tensor, []int{2}, 1)
	require.NotNil(t, err)
}

func TestRawMaterializesOnce(t *testing.T) {
	b := CreateBackend()
	tensor, err := b.FromFlatData(chute.Float64, []float64{1, 2, 3, 4}, 2, 2)
	require.Nil(t, err)
	raw := tensor.(*Tensor).Raw()
	require.NotNil(t, raw)
	require.Same(t, raw, tensor.(*Tensor).Raw())
}
