package autofill

import (
	"context"
	"errors"
	"fmt"

	"github.com/entrhq/labtime/pkg/logging"
	"github.com/entrhq/labtime/pkg/store"
)

// ErrRequiredDataMissing is returned when the profile or the selected
// interval has not been stored yet. It is informational, not an alert.
var ErrRequiredDataMissing = errors.New("required data not found")

// Exchange is the outcome of one message round trip.
type Exchange struct {
	Sent  bool
	Reply Reply
	Err   error
}

// OK reports whether the message was delivered and the page succeeded.
func (e Exchange) OK() bool {
	return e.Sent && e.Err == nil && e.Reply.OK()
}

// Report describes both exchanges of a submit.
type Report struct {
	Autofill Exchange
	Trigger  Exchange
}

// Err joins the failures of both exchanges, or returns nil.
func (r *Report) Err() error {
	var errs []error
	for _, ex := range []struct {
		name string
		ex   Exchange
	}{{"autofill", r.Autofill}, {"request button", r.Trigger}} {
		switch {
		case ex.ex.Err != nil:
			errs = append(errs, fmt.Errorf("%s failed: %w", ex.name, ex.ex.Err))
		case ex.ex.Sent && !ex.ex.Reply.OK():
			errs = append(errs, fmt.Errorf("%s failed: %s", ex.name, replyError(ex.ex.Reply)))
		}
	}
	return errors.Join(errs...)
}

// Coordinator reads the stored profile and interval and drives the page.
type Coordinator struct {
	store     store.Store
	messenger Messenger
	logger    *logging.Logger
}

// NewCoordinator creates a coordinator.
func NewCoordinator(s store.Store, m Messenger, logger *logging.Logger) *Coordinator {
	return &Coordinator{store: s, messenger: m, logger: logger}
}

// Run fills the reservation form and presses the request button. The two
// exchanges are independent: a failed autofill does not stop the trigger, and
// nothing is rolled back. The returned error is ErrRequiredDataMissing, a
// storage error, or the joined exchange failures.
func (c *Coordinator) Run(ctx context.Context) (*Report, error) {
	profile, err := store.Profile(ctx, c.store)
	if err != nil {
		return nil, err
	}
	iv, found, err := store.ReserveInfo(ctx, c.store)
	if err != nil {
		return nil, fmt.Errorf("failed to read selected interval: %w", err)
	}
	if !profile.Complete() || !found {
		c.logger.Infof("Required data not found in storage. Please set it up first.")
		return nil, ErrRequiredDataMissing
	}

	report := &Report{}
	report.Autofill = c.exchange(ctx, NewAutofill(profile, iv))
	if report.Autofill.OK() {
		c.logger.Infof("Autofill completed.")
	} else {
		c.logger.Errorf("Autofill failed: %s", exchangeError(report.Autofill))
	}

	report.Trigger = c.exchange(ctx, Message{Type: TypeTriggerRequestButton})
	if report.Trigger.OK() {
		c.logger.Infof("Request button clicked")
	} else {
		c.logger.Errorf("Failed to click request button: %s", exchangeError(report.Trigger))
	}

	return report, report.Err()
}

func (c *Coordinator) exchange(ctx context.Context, msg Message) Exchange {
	reply, err := c.messenger.Send(ctx, msg)
	if err != nil {
		return Exchange{Err: err}
	}
	return Exchange{Sent: true, Reply: reply}
}

func exchangeError(ex Exchange) string {
	if ex.Err != nil {
		return ex.Err.Error()
	}
	return replyError(ex.Reply)
}

func replyError(r Reply) string {
	if r.Error == "" {
		return "Unknown error"
	}
	return r.Error
}
