package store

import (
	"context"
	"fmt"

	"github.com/entrhq/labtime/pkg/reservation"
)

// DefaultFacilityName is shown when the page had no facility name.
const DefaultFacilityName = "Unknown Facility"

// Reservations returns the stored reservation set, or nil when none was stored.
func Reservations(ctx context.Context, s Store) ([]reservation.Record, error) {
	var records []reservation.Record
	if _, err := s.Get(ctx, KeyReservations, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// SetReservations replaces the whole reservation set.
func SetReservations(ctx context.Context, s Store, records []reservation.Record) error {
	if records == nil {
		records = []reservation.Record{}
	}
	return s.Set(ctx, map[string]any{KeyReservations: records})
}

// Facility returns the stored facility metadata. A missing name reads as
// DefaultFacilityName.
func Facility(ctx context.Context, s Store) (reservation.FacilityMetadata, error) {
	var meta reservation.FacilityMetadata
	if _, err := s.Get(ctx, KeyFacilityName, &meta.FacilityName); err != nil {
		return meta, err
	}
	if _, err := s.Get(ctx, KeyFirstImgAlt, &meta.FirstImgAlt); err != nil {
		return meta, err
	}
	if meta.FacilityName == "" {
		meta.FacilityName = DefaultFacilityName
	}
	return meta, nil
}

// SetFacilityName stores the facility name.
func SetFacilityName(ctx context.Context, s Store, name string) error {
	return s.Set(ctx, map[string]any{KeyFacilityName: name})
}

// SetFirstImgAlt stores the first schedule cell's alt text. An empty string
// clears any cross-day reservation.
func SetFirstImgAlt(ctx context.Context, s Store, alt string) error {
	return s.Set(ctx, map[string]any{KeyFirstImgAlt: alt})
}

// Profile reads the five profile keys. Absent keys stay empty.
func Profile(ctx context.Context, s Store) (reservation.Profile, error) {
	var p reservation.Profile
	fields := []struct {
		key string
		dst *string
	}{
		{KeyUserName, &p.UserName},
		{KeyUserEmail, &p.UserEmail},
		{KeyUserPhone, &p.UserPhone},
		{KeyUserPassword, &p.UserPassword},
		{KeyUserLab, &p.UserLab},
	}
	for _, f := range fields {
		if _, err := s.Get(ctx, f.key, f.dst); err != nil {
			return p, fmt.Errorf("failed to read profile: %w", err)
		}
	}
	return p, nil
}

// SetProfile overwrites all profile keys in one write.
func SetProfile(ctx context.Context, s Store, p reservation.Profile) error {
	return s.Set(ctx, map[string]any{
		KeyUserName:     p.UserName,
		KeyUserEmail:    p.UserEmail,
		KeyUserPhone:    p.UserPhone,
		KeyUserPassword: p.UserPassword,
		KeyUserLab:      p.UserLab,
	})
}

// ReserveInfo returns the persisted selection. found is false when the key was
// never written; a cleared selection is found but empty.
func ReserveInfo(ctx context.Context, s Store) (iv reservation.Interval, found bool, err error) {
	found, err = s.Get(ctx, KeyReserveInfo, &iv)
	return iv, found, err
}

// SetReserveInfo persists the single selected interval.
func SetReserveInfo(ctx context.Context, s Store, iv reservation.Interval) error {
	return s.Set(ctx, map[string]any{KeyReserveInfo: iv})
}

// ClearReserveInfo resets the selected interval to an empty object.
func ClearReserveInfo(ctx context.Context, s Store) error {
	return s.Set(ctx, map[string]any{KeyReserveInfo: struct{}{}})
}

// IntervalSink adapts a Store to the selection engine's persistence hook.
type IntervalSink struct {
	Store Store
}

// SaveInterval implements selection.Sink.
func (k IntervalSink) SaveInterval(ctx context.Context, iv reservation.Interval) error {
	return SetReserveInfo(ctx, k.Store, iv)
}

// ClearInterval implements selection.Sink.
func (k IntervalSink) ClearInterval(ctx context.Context) error {
	return ClearReserveInfo(ctx, k.Store)
}
