package scraper

import (
	"context"
	"errors"
	"fmt"

	"github.com/entrhq/labtime/pkg/logging"
	"github.com/entrhq/labtime/pkg/reservation"
	"github.com/entrhq/labtime/pkg/store"
)

// Result summarizes one scrape.
type Result struct {
	Records  []reservation.Record
	Facility reservation.FacilityMetadata

	// ReservationsStored is false when the reservation step wrote nothing.
	ReservationsStored bool

	// ImageStored is false when the schedule-image step wrote nothing.
	ImageStored bool
}

// Scraper reads the reservation page and publishes what it finds.
type Scraper struct {
	reader  PageReader
	store   store.Store
	logger  *logging.Logger
	matcher *URLMatcher
}

// New creates a scraper. A nil matcher allows every page.
func New(reader PageReader, s store.Store, logger *logging.Logger, matcher *URLMatcher) *Scraper {
	return &Scraper{
		reader:  reader,
		store:   s,
		logger:  logger,
		matcher: matcher,
	}
}

// Run scrapes the page once. The reservation step and the schedule-image
// step are independent: a failure in one is logged and returned, but does not
// stop the other. A label/value mismatch aborts the reservation step without
// writing anything.
func (s *Scraper) Run(ctx context.Context) (*Result, error) {
	page, err := s.reader.ReadPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read page: %w", err)
	}
	if !s.matcher.Allows(page.URL) {
		s.logger.Warnf("Skipping scrape of %s: not an allowed reservation page", page.URL)
		return nil, fmt.Errorf("%w: %s", ErrPageNotAllowed, page.URL)
	}

	result := &Result{}
	var errs []error

	if err := s.publishReservations(ctx, page, result); err != nil {
		errs = append(errs, err)
	}
	if err := s.publishScheduleImage(ctx, page, result); err != nil {
		errs = append(errs, err)
	}
	return result, errors.Join(errs...)
}

func (s *Scraper) publishReservations(ctx context.Context, page *Page, result *Result) error {
	records, err := Parse(page)
	if err != nil {
		s.logger.Errorf("Error during scraping reservations: %v", err)
		return err
	}

	facility := page.FacilityName
	if facility == "" {
		facility = store.DefaultFacilityName
	}
	result.Facility.FacilityName = facility

	values := map[string]any{store.KeyFacilityName: facility}
	switch {
	case !page.ListFound:
		s.logger.Warnf("Reservation list not found on %s; keeping stored reservations", page.URL)
	case page.NoData:
		s.logger.Infof("No reservations found.")
		values[store.KeyReservations] = []reservation.Record{}
		result.ReservationsStored = true
	default:
		for i, rec := range records {
			if rec.StartTime == "" {
				s.logger.Warnf("Unparseable reservation time %q at position %d", page.Labels[i], i)
			}
		}
		values[store.KeyReservations] = records
		result.Records = records
		result.ReservationsStored = true
	}

	if err := s.store.Set(ctx, values); err != nil {
		result.ReservationsStored = false
		s.logger.Errorf("Failed to save reservations: %v", err)
		return fmt.Errorf("failed to save reservations: %w", err)
	}
	s.logger.Infof("Stored %d reservations for %s", len(result.Records), facility)
	return nil
}

func (s *Scraper) publishScheduleImage(ctx context.Context, page *Page, result *Result) error {
	img := page.Image
	switch {
	case !img.Found:
		s.logger.Warnf("No reservation image found.")
		return nil
	case img.Blank:
		result.Facility.FirstImgAlt = ""
	case !img.HasAlt:
		s.logger.Warnf("Reservation image does not have an alt attribute.")
		return nil
	default:
		result.Facility.FirstImgAlt = img.Alt
	}

	if err := store.SetFirstImgAlt(ctx, s.store, result.Facility.FirstImgAlt); err != nil {
		s.logger.Errorf("Failed to store alt text: %v", err)
		return fmt.Errorf("failed to store schedule image alt text: %w", err)
	}
	result.ImageStored = true
	s.logger.Debugf("Schedule image alt text stored: %q", result.Facility.FirstImgAlt)
	return nil
}
