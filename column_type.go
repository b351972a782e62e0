package chute

// Dtype enumerates the numeric element types supported by Chute columns and tensors.
type Dtype int

const (
	// Int32 stores 32-bit signed integers
	Int32 Dtype = iota
	// Int64 stores 64-bit signed integers
	Int64
	// Float32 stores 32-bit floating point numbers
	Float32
	// Float64 stores 64-bit floating point numbers
	Float64
)

// Size returns the size in bytes of one element of this Dtype
func (d Dtype) Size() int {
	switch d {
	case Int32, Float32:
		return 4
	default:
		return 8
	}
}

// String produces a string representation of this Dtype
func (d Dtype) String() string {
	switch d {
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return "unknown"
	}
}

// Role tags the purpose a column serves during model training
type Role int

const (
	// Categorical columns hold discrete feature values
	Categorical Role = iota
	// Continuous columns hold real-valued feature values
	Continuous
	// Label columns hold training targets
	Label
)

// String produces a string representation of this Role
func (r Role) String() string {
	switch r {
	case Categorical:
		return "categorical"
	case Continuous:
		return "continuous"
	case Label:
		return "label"
	default:
		return "unknown"
	}
}

// Class is the closed variant a column resolves to when a Schema is built.
// Conversion code dispatches on Class rather than re-inspecting values.
type Class int

const (
	// Scalar columns hold one value per row
	Scalar Class = iota
	// FixedList columns hold sequences which must materialize at a fixed width
	FixedList
	// RaggedList columns hold variable-length sequences
	RaggedList
)
