package normalize

import (
	"fmt"

	"github.com/rickgao/crypto-etl/internal/model"
)

// Listing passes each market object of a listing response through as a
// record. An empty listing yields no records.
func Listing(raw any, unit model.FetchUnit) ([]model.Record, error) {
	items, ok := raw.([]any)
	if !ok {
		return nil, &NormalizationError{
			Unit:   unit.CanonicalID,
			Reason: fmt.Sprintf("expected array of markets, got %T", raw),
		}
	}

	records := make([]model.Record, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, &NormalizationError{
				Unit:   unit.CanonicalID,
				Reason: fmt.Sprintf("market at index %d is %T, not an object", i, item),
			}
		}
		records = append(records, model.Record(obj).Clone())
	}

	return records, nil
}

// ListingPayload adapts Listing to Func.
func ListingPayload(raw any, unit model.FetchUnit) (any, error) {
	return Listing(raw, unit)
}
