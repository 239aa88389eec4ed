// Package store is the string-keyed, JSON-valued storage shared by the
// scraper, the timeline, and the autofill coordinator.
//
// Store carries no read-modify-write protection. Two writers touching the same
// key (a scrape and a selection removal, say) race, and the last Set wins.
package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Storage keys.
const (
	KeyReservations = "reservations"
	KeyFacilityName = "facilityName"
	KeyFirstImgAlt  = "firstImgAlt"
	KeyUserName     = "userName"
	KeyUserEmail    = "userEmail"
	KeyUserPhone    = "userPhone"
	KeyUserPassword = "userPassword"
	KeyUserLab      = "userLab"
	KeyReserveInfo  = "reserveInfo"
)

// Store is a key-value store with JSON values.
type Store interface {
	// Get decodes the value stored under key into dst. found is false when the
	// key is absent, in which case dst is left untouched.
	Get(ctx context.Context, key string, dst any) (found bool, err error)

	// Set stores every entry in values.
	Set(ctx context.Context, values map[string]any) error

	// Delete removes keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}

// encode marshals every value up front so a bad value never causes a partial write.
func encode(values map[string]any) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(values))
	for key, value := range values {
		data, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %q: %w", key, err)
		}
		out[key] = data
	}
	return out, nil
}

func decode(key string, data []byte, dst any) error {
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to decode %q: %w", key, err)
	}
	return nil
}
