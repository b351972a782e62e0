package frame

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/go-chute/chute"
	cerrors "github.com/go-chute/chute/errors"
	uuid "github.com/gofrs/uuid"
)

// ColumnData carries the raw buffers used to build one Frame column. Data is
// the flat scalar buffer for scalar columns, or the flat leaf values for list
// columns. Offsets holds the row-boundary offsets of a list column
// (len = rows+1); InnerOffsets optionally adds a second nesting level, with
// Offsets indexing into it.
type ColumnData struct {
	Data         interface{}
	Offsets      []int64
	InnerOffsets []int64
}

// frameImpl is Chute's internal implementation of Frame
type frameImpl struct {
	id      string
	schema  chute.Schema
	numRows int
	cols    map[string]*columnImpl
}

func newID() string {
	id, err := uuid.NewV4()
	if err != nil {
		log.Fatalf("failed to generate UUID for Frame: %v", err)
	}
	return id.String()
}

// CreateFrame builds a Frame from raw column buffers, validating that every
// schema column is present, buffers match their declared Dtype, and all
// columns agree on the row count.
func CreateFrame(schema chute.Schema, cols map[string]ColumnData) (chute.Frame, error) {
	f := &frameImpl{
		id:      newID(),
		schema:  schema,
		numRows: -1,
		cols:    make(map[string]*columnImpl, schema.NumColumns()),
	}
	for _, name := range schema.ColumnNames() {
		colSchema, err := schema.Column(name)
		if err != nil {
			return nil, err
		}
		cd, ok := cols[name]
		if !ok {
			return nil, cerrors.IncompatibleFrameError{Name: name}
		}
		if !bufMatches(cd.Data, colSchema.Dtype) {
			return nil, fmt.Errorf("Column %s holds %T but is declared %s", name, cd.Data, colSchema.Dtype)
		}
		var rows int
		if colSchema.IsList {
			rows, err = validateListData(name, cd)
			if err != nil {
				return nil, err
			}
		} else {
			if cd.Offsets != nil {
				return nil, fmt.Errorf("Column %s is scalar but carries offsets", name)
			}
			rows, err = bufLen(cd.Data)
			if err != nil {
				return nil, err
			}
		}
		if f.numRows >= 0 && rows != f.numRows {
			return nil, fmt.Errorf("Column %s has %d rows; expected %d", name, rows, f.numRows)
		}
		f.numRows = rows
		f.cols[name] = &columnImpl{
			schema:       colSchema,
			numRows:      rows,
			data:         cd.Data,
			offsets:      cd.Offsets,
			innerOffsets: cd.InnerOffsets,
		}
	}
	if f.numRows < 0 {
		f.numRows = 0
	}
	return f, nil
}

func validateListData(name string, cd ColumnData) (int, error) {
	if len(cd.Offsets) == 0 {
		return 0, cerrors.LayoutError{Name: name, Reason: "offsets are missing"}
	}
	if cd.Offsets[0] != 0 {
		return 0, cerrors.LayoutError{Name: name, Reason: "offsets do not start at zero"}
	}
	for i := 1; i < len(cd.Offsets); i++ {
		if cd.Offsets[i] < cd.Offsets[i-1] {
			return 0, cerrors.LayoutError{Name: name, Reason: "offsets are decreasing"}
		}
	}
	rows := len(cd.Offsets) - 1
	leafCount, err := bufLen(cd.Data)
	if err != nil {
		return 0, err
	}
	last := cd.Offsets[rows]
	if cd.InnerOffsets != nil {
		if last >= int64(len(cd.InnerOffsets)) {
			return 0, cerrors.LayoutError{Name: name, Reason: "outer offsets overrun inner offsets"}
		}
		last = cd.InnerOffsets[last]
	}
	if last != int64(leafCount) {
		return 0, cerrors.LayoutError{Name: name, Reason: fmt.Sprintf("offsets cover %d values but %d are present", last, leafCount)}
	}
	return rows, nil
}

// ID retrieves the ID of this Frame
func (f *frameImpl) ID() string {
	return f.id
}

// Schema returns the Schema this Frame's columns conform to
func (f *frameImpl) Schema() chute.Schema {
	return f.schema
}

// NumRows retrieves the number of rows in this Frame
func (f *frameImpl) NumRows() int {
	return f.numRows
}

// Column retrieves a column of this Frame by name
func (f *frameImpl) Column(name string) (chute.FrameColumn, error) {
	col, ok := f.cols[name]
	if !ok {
		return nil, fmt.Errorf("Frame does not contain column with name %s", name)
	}
	return col, nil
}

// Select produces a new Frame containing only the named columns. Column
// buffers are shared with the source Frame; columns are immutable.
func (f *frameImpl) Select(names []string) (chute.Frame, error) {
	sub, err := f.schema.Select(names)
	if err != nil {
		return nil, err
	}
	cols := make(map[string]*columnImpl, len(names))
	for _, name := range names {
		col, ok := f.cols[name]
		if !ok {
			return nil, fmt.Errorf("Frame does not contain column with name %s", name)
		}
		cols[name] = col
	}
	return &frameImpl{id: newID(), schema: sub, numRows: f.numRows, cols: cols}, nil
}

// Slice produces a new Frame containing rows [start, end), with the row index
// reset. Nested list columns are flattened to a single level in the result.
func (f *frameImpl) Slice(start int, end int) (chute.Frame, error) {
	if start < 0 || end < start || end > f.numRows {
		return nil, fmt.Errorf("Cannot slice rows [%d, %d) of a %d-row Frame", start, end, f.numRows)
	}
	cols := make(map[string]ColumnData, len(f.cols))
	for name, col := range f.cols {
		if !col.schema.IsList {
			data, err := sliceBuf(col.data, int64(start), int64(end))
			if err != nil {
				return nil, err
			}
			cols[name] = ColumnData{Data: data}
			continue
		}
		leaves, offsets, err := col.ListLayout()
		if err != nil {
			return nil, err
		}
		data, err := sliceBuf(leaves, offsets[start], offsets[end])
		if err != nil {
			return nil, err
		}
		rebased := make([]int64, end-start+1)
		for i := range rebased {
			rebased[i] = offsets[start+i] - offsets[start]
		}
		cols[name] = ColumnData{Data: data, Offsets: rebased}
	}
	return CreateFrame(f.schema, cols)
}

// Shuffle produces a new Frame with rows permuted by the given source of
// randomness. Nested list columns are flattened to a single level in the
// result.
func (f *frameImpl) Shuffle(r *rand.Rand) (chute.Frame, error) {
	perm := r.Perm(f.numRows)
	cols := make(map[string]ColumnData, len(f.cols))
	for name, col := range f.cols {
		if !col.schema.IsList {
			data, err := gatherRows(col.data, perm)
			if err != nil {
				return nil, err
			}
			cols[name] = ColumnData{Data: data}
			continue
		}
		leaves, offsets, err := col.ListLayout()
		if err != nil {
			return nil, err
		}
		var data interface{}
		newOffsets := make([]int64, f.numRows+1)
		for i, p := range perm {
			data, err = appendRange(data, leaves, offsets[p], offsets[p+1])
			if err != nil {
				return nil, err
			}
			newOffsets[i+1] = newOffsets[i] + (offsets[p+1] - offsets[p])
		}
		if data == nil {
			data, err = sliceBuf(leaves, 0, 0)
			if err != nil {
				return nil, err
			}
		}
		cols[name] = ColumnData{Data: data, Offsets: newOffsets}
	}
	return CreateFrame(f.schema, cols)
}

// Concat concatenates Frames sharing a Schema into one Frame, in order, with
// the row index reset. A single-Frame concat returns the Frame unchanged.
func Concat(frames []chute.Frame) (chute.Frame, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("Cannot concatenate zero Frames")
	}
	if len(frames) == 1 {
		return frames[0], nil
	}
	schema := frames[0].Schema()
	cols := make(map[string]ColumnData, schema.NumColumns())
	for _, name := range schema.ColumnNames() {
		colSchema, err := schema.Column(name)
		if err != nil {
			return nil, err
		}
		var data interface{}
		if !colSchema.IsList {
			for _, f := range frames {
				col, err := f.Column(name)
				if err != nil {
					return nil, err
				}
				buf, err := col.Data()
				if err != nil {
					return nil, err
				}
				data, err = appendBuf(data, buf)
				if err != nil {
					return nil, err
				}
			}
			cols[name] = ColumnData{Data: data}
			continue
		}
		offsets := []int64{0}
		for _, f := range frames {
			col, err := f.Column(name)
			if err != nil {
				return nil, err
			}
			leaves, colOffsets, err := col.ListLayout()
			if err != nil {
				return nil, err
			}
			base := offsets[len(offsets)-1]
			for i := 1; i < len(colOffsets); i++ {
				offsets = append(offsets, base+colOffsets[i]-colOffsets[0])
			}
			data, err = appendRange(data, leaves, colOffsets[0], colOffsets[len(colOffsets)-1])
			if err != nil {
				return nil, err
			}
		}
		cols[name] = ColumnData{Data: data, Offsets: offsets}
	}
	return CreateFrame(schema, cols)
}
