package browser

import (
	"context"
	"fmt"

	"github.com/entrhq/labtime/pkg/autofill"
	"github.com/entrhq/labtime/pkg/logging"
	"github.com/entrhq/labtime/pkg/store"
)

// Reservation form selectors.
const (
	FieldName     = "#rsv_name"
	FieldEmail    = "#rsv_email"
	FieldPhone    = "#rsv_telext"
	FieldPassword = "#rsv_delpass"
	FieldLab      = "#rsv_labuid"

	FieldStartHour   = "#rsv_sth"
	FieldStartMinute = "#rsv_stm"
	FieldEndHour     = "#rsv_edh"
	FieldEndMinute   = "#rsv_edm"

	RequestButton = "button.positive[type='submit']"
)

// PageAgent answers autofill messages on the reservation page.
type PageAgent struct {
	driver Driver
	store  store.Store
	logger *logging.Logger
}

// NewPageAgent creates an agent for the page behind d. s is where the
// selected interval is cleared after the request button is pressed.
func NewPageAgent(d Driver, s store.Store, logger *logging.Logger) *PageAgent {
	return &PageAgent{driver: d, store: s, logger: logger}
}

var _ autofill.Messenger = (*PageAgent)(nil)

// Send implements autofill.Messenger. Page-side problems come back as failure
// replies; only an unknown message type or a cancelled context is an error.
func (a *PageAgent) Send(ctx context.Context, msg autofill.Message) (autofill.Reply, error) {
	if err := ctx.Err(); err != nil {
		return autofill.Reply{}, err
	}

	switch msg.Type {
	case autofill.TypeAutofill:
		return a.fill(msg), nil
	case autofill.TypeTriggerRequestButton:
		return a.trigger(ctx), nil
	default:
		return autofill.Reply{}, fmt.Errorf("unknown message type: %q", msg.Type)
	}
}

// formField is one control of the reservation form.
type formField struct {
	selector string
	value    string
	choice   bool
}

func (a *PageAgent) fill(msg autofill.Message) autofill.Reply {
	fields := []formField{
		{selector: FieldName, value: msg.UserName},
		{selector: FieldEmail, value: msg.UserEmail},
		{selector: FieldPhone, value: msg.UserPhone},
		{selector: FieldPassword, value: msg.UserPassword},
		{selector: FieldLab, value: msg.UserLab, choice: true},
	}
	if iv := msg.ReserveInfo; iv != nil {
		fields = append(fields,
			formField{selector: FieldStartHour, value: iv.StartHour, choice: true},
			formField{selector: FieldStartMinute, value: iv.StartMinute, choice: true},
			formField{selector: FieldEndHour, value: iv.EndHour, choice: true},
			formField{selector: FieldEndMinute, value: iv.EndMinute, choice: true},
		)
	}

	for _, f := range fields {
		var err error
		if f.choice {
			err = a.driver.SelectOption(f.selector, f.value)
		} else {
			err = a.driver.Fill(FillOptions{Selector: f.selector, Value: f.value})
		}
		if err != nil {
			a.logger.Errorf("Autofill of %s failed: %v", f.selector, err)
			return autofill.Failure(err.Error())
		}
	}
	return autofill.Success()
}

func (a *PageAgent) trigger(ctx context.Context) autofill.Reply {
	found, err := a.driver.Exists(RequestButton)
	if err != nil {
		a.logger.Errorf("Error clicking request button: %v", err)
		return autofill.Failure(err.Error())
	}
	if !found {
		a.logger.Warnf("Request button not found on the page.")
		return autofill.Failure("Request button not found.")
	}
	if err := a.driver.Click(ClickOptions{Selector: RequestButton}); err != nil {
		a.logger.Errorf("Error clicking request button: %v", err)
		return autofill.Failure(err.Error())
	}

	if err := store.ClearReserveInfo(ctx, a.store); err != nil {
		a.logger.Errorf("Failed to clear selected interval: %v", err)
	}
	return autofill.Success()
}
