package jsonl

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/go-chute/chute"
	"github.com/go-chute/chute/frame"
)

// columnBuilder accumulates one column's buffers while a partition file is
// scanned
type columnBuilder struct {
	schema  chute.ColumnSchema
	data    interface{}
	offsets []int64
}

func newColumnBuilder(schema chute.ColumnSchema) *columnBuilder {
	b := &columnBuilder{schema: schema, data: emptyBuf(schema.Dtype)}
	if schema.IsList {
		b.offsets = []int64{0}
	}
	return b
}

// add appends the row's value for this column
func (b *columnBuilder) add(row gjson.Result) error {
	v := row.Get(b.schema.Name)
	if !v.Exists() {
		return fmt.Errorf("row is missing column %s", b.schema.Name)
	}
	if !b.schema.IsList {
		b.data = appendValue(b.data, b.schema.Dtype, v)
		return nil
	}
	if !v.IsArray() {
		return fmt.Errorf("column %s is a list but the value is not a JSON array", b.schema.Name)
	}
	elems := v.Array()
	for _, e := range elems {
		b.data = appendValue(b.data, b.schema.Dtype, e)
	}
	b.offsets = append(b.offsets, b.offsets[len(b.offsets)-1]+int64(len(elems)))
	return nil
}

func (b *columnBuilder) finish() frame.ColumnData {
	return frame.ColumnData{Data: b.data, Offsets: b.offsets}
}

func emptyBuf(dtype chute.Dtype) interface{} {
	switch dtype {
	case chute.Int32:
		return []int32{}
	case chute.Int64:
		return []int64{}
	case chute.Float32:
		return []float32{}
	default:
		return []float64{}
	}
}

func appendValue(data interface{}, dtype chute.Dtype, v gjson.Result) interface{} {
	switch dtype {
	case chute.Int32:
		return append(data.([]int32), int32(v.Int()))
	case chute.Int64:
		return append(data.([]int64), v.Int())
	case chute.Float32:
		return append(data.([]float32), float32(v.Float()))
	default:
		return append(data.([]float64), v.Float())
	}
}
