package normalize

import "github.com/rickgao/crypto-etl/internal/model"

// Shape describes how an upstream payload is laid out.
type Shape int

const (
	ShapeObject  Shape = iota // single object -> one record
	ShapeRecords              // array of objects -> one record each
	ShapeTuples               // array of positional tuples -> one record each
)

func (s Shape) String() string {
	switch s {
	case ShapeObject:
		return "object"
	case ShapeRecords:
		return "records"
	case ShapeTuples:
		return "tuples"
	default:
		return "unknown"
	}
}

// Func converts one raw upstream response into the payload stored in a
// snapshot: a model.Record for ShapeObject, []model.Record otherwise.
type Func func(raw any, unit model.FetchUnit) (any, error)
