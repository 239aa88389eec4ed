package browser

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/labtime/pkg/autofill"
	"github.com/entrhq/labtime/pkg/logging"
	"github.com/entrhq/labtime/pkg/reservation"
	"github.com/entrhq/labtime/pkg/scraper"
	"github.com/entrhq/labtime/pkg/store"
)

// fakePage is an in-memory Driver keyed by exact selector.
type fakePage struct {
	url    string
	texts  map[string][]string
	attrs  map[string]map[string]string
	values map[string]string
	clicks []string
	err    error
}

func newFakePage() *fakePage {
	return &fakePage{
		url:    "https://rsv.example.ac.jp/facility/1",
		texts:  make(map[string][]string),
		attrs:  make(map[string]map[string]string),
		values: make(map[string]string),
	}
}

func (f *fakePage) URL() string { return f.url }

func (f *fakePage) Exists(selector string) (bool, error) {
	_, text := f.texts[selector]
	_, attr := f.attrs[selector]
	_, value := f.values[selector]
	return text || attr || value, f.err
}

func (f *fakePage) Text(selector string) (string, bool, error) {
	texts, ok := f.texts[selector]
	if !ok || len(texts) == 0 {
		return "", false, f.err
	}
	return texts[0], true, f.err
}

func (f *fakePage) Texts(selector string) ([]string, error) {
	return f.texts[selector], f.err
}

func (f *fakePage) Attribute(selector, name string) (string, bool, error) {
	attrs, ok := f.attrs[selector]
	if !ok {
		return "", false, f.err
	}
	return attrs[name], true, f.err
}

func (f *fakePage) Fill(opts FillOptions) error {
	if _, ok := f.values[opts.Selector]; !ok {
		return errors.New("no element found matching selector: " + opts.Selector)
	}
	f.values[opts.Selector] = opts.Value
	return nil
}

func (f *fakePage) SelectOption(selector, value string) error {
	return f.Fill(FillOptions{Selector: selector, Value: value})
}

func (f *fakePage) Click(opts ClickOptions) error {
	f.clicks = append(f.clicks, opts.Selector)
	return f.err
}

func reservationForm() *fakePage {
	page := newFakePage()
	for _, sel := range []string{
		FieldName, FieldEmail, FieldPhone, FieldPassword, FieldLab,
		FieldStartHour, FieldStartMinute, FieldEndHour, FieldEndMinute,
	} {
		page.values[sel] = ""
	}
	page.values[FieldStartHour] = "9"
	page.values[FieldStartMinute] = "00"
	page.attrs[RequestButton] = map[string]string{"type": "submit"}
	return page
}

func TestPageReader(t *testing.T) {
	page := newFakePage()
	page.texts[scraper.SelectorFacility] = []string{"  Confocal Microscope\n"}
	page.texts[scraper.SelectorList] = []string{""}
	page.texts[within(scraper.SelectorLabels)] = []string{"1/20 9:00～10:30"}
	page.texts[within(scraper.SelectorValues)] = []string{"Taro / Suga lab（24638）"}
	page.attrs[scraper.SelectorScheduleImage] = map[string]string{"class": "slot blank"}

	got, err := NewPageReader(page).ReadPage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, page.url, got.URL)
	assert.Equal(t, "Confocal Microscope", got.FacilityName)
	assert.True(t, got.ListFound)
	assert.False(t, got.NoData)
	assert.Equal(t, []string{"1/20 9:00～10:30"}, got.Labels)
	assert.Equal(t, []string{"Taro / Suga lab（24638）"}, got.Values)
	assert.Equal(t, scraper.ScheduleImage{Found: true, Blank: true}, got.Image)
}

func TestPageReaderMissingTargets(t *testing.T) {
	got, err := NewPageReader(newFakePage()).ReadPage(context.Background())
	require.NoError(t, err)
	assert.False(t, got.ListFound)
	assert.False(t, got.Image.Found)
	assert.Empty(t, got.FacilityName)
}

func TestPageReaderAltText(t *testing.T) {
	page := newFakePage()
	page.attrs[scraper.SelectorScheduleImage] = map[string]string{"alt": "1/19 23:00～1/20 1:00"}

	got, err := NewPageReader(page).ReadPage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, scraper.ScheduleImage{Found: true, HasAlt: true, Alt: "1/19 23:00～1/20 1:00"}, got.Image)
}

func TestPageReaderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewPageReader(newFakePage()).ReadPage(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func newTestAgent(page *fakePage) (*PageAgent, *store.MemoryStore, *bytes.Buffer) {
	s := store.NewMemoryStore()
	var logs bytes.Buffer
	return NewPageAgent(page, s, logging.NewWriterLogger("agent", &logs)), s, &logs
}

var profile = reservation.Profile{
	UserName:     "Taro Yamada",
	UserEmail:    "taro@example.ac.jp",
	UserPhone:    "1234",
	UserPassword: "secret",
	UserLab:      "17",
}

func TestAgentAutofill(t *testing.T) {
	page := reservationForm()
	agent, _, _ := newTestAgent(page)
	iv := reservation.Interval{StartHour: "10", StartMinute: "05", EndHour: "11", EndMinute: "30"}

	reply, err := agent.Send(context.Background(), autofill.NewAutofill(profile, iv))
	require.NoError(t, err)
	assert.True(t, reply.OK())

	assert.Equal(t, map[string]string{
		FieldName:        "Taro Yamada",
		FieldEmail:       "taro@example.ac.jp",
		FieldPhone:       "1234",
		FieldPassword:    "secret",
		FieldLab:         "17",
		FieldStartHour:   "10",
		FieldStartMinute: "05",
		FieldEndHour:     "11",
		FieldEndMinute:   "30",
	}, page.values)
}

func TestAgentAutofillEmptyIntervalLeavesTimes(t *testing.T) {
	page := reservationForm()
	agent, _, _ := newTestAgent(page)

	reply, err := agent.Send(context.Background(), autofill.NewAutofill(profile, reservation.Interval{}))
	require.NoError(t, err)
	assert.True(t, reply.OK())

	assert.Equal(t, "Taro Yamada", page.values[FieldName])
	assert.Equal(t, "17", page.values[FieldLab])
	assert.Equal(t, "9", page.values[FieldStartHour])
	assert.Equal(t, "00", page.values[FieldStartMinute])
	assert.Equal(t, "", page.values[FieldEndHour])
}

func TestAgentAutofillMissingField(t *testing.T) {
	page := reservationForm()
	delete(page.values, FieldPhone)
	agent, _, logs := newTestAgent(page)

	reply, err := agent.Send(context.Background(), autofill.NewAutofill(profile, reservation.Interval{}))
	require.NoError(t, err)
	assert.False(t, reply.OK())
	assert.Contains(t, reply.Error, FieldPhone)
	assert.Contains(t, logs.String(), "Autofill of #rsv_telext failed")
}

func TestAgentTrigger(t *testing.T) {
	ctx := context.Background()
	page := reservationForm()
	agent, s, _ := newTestAgent(page)
	require.NoError(t, store.SetReserveInfo(ctx, s, reservation.Interval{StartHour: "1", StartMinute: "00", EndHour: "2", EndMinute: "00"}))

	reply, err := agent.Send(ctx, autofill.Message{Type: autofill.TypeTriggerRequestButton})
	require.NoError(t, err)
	assert.True(t, reply.OK())
	assert.Equal(t, []string{RequestButton}, page.clicks)

	iv, found, err := store.ReserveInfo(ctx, s)
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, iv.IsEmpty())
}

func TestAgentTriggerWithoutButton(t *testing.T) {
	ctx := context.Background()
	page := reservationForm()
	delete(page.attrs, RequestButton)
	agent, s, logs := newTestAgent(page)
	kept := reservation.Interval{StartHour: "1", StartMinute: "00", EndHour: "2", EndMinute: "00"}
	require.NoError(t, store.SetReserveInfo(ctx, s, kept))

	reply, err := agent.Send(ctx, autofill.Message{Type: autofill.TypeTriggerRequestButton})
	require.NoError(t, err)
	assert.Equal(t, autofill.Failure("Request button not found."), reply)
	assert.Empty(t, page.clicks)
	assert.Contains(t, logs.String(), "Request button not found on the page.")

	iv, _, err := store.ReserveInfo(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, kept, iv)
}

func TestAgentUnknownMessage(t *testing.T) {
	agent, _, _ := newTestAgent(reservationForm())
	_, err := agent.Send(context.Background(), autofill.Message{Type: "PING"})
	assert.Error(t, err)
}

func TestAgentWithCoordinator(t *testing.T) {
	ctx := context.Background()
	page := reservationForm()
	agent, s, _ := newTestAgent(page)
	require.NoError(t, store.SetProfile(ctx, s, profile))
	require.NoError(t, store.SetReserveInfo(ctx, s, reservation.Interval{StartHour: "13", StartMinute: "00", EndHour: "14", EndMinute: "15"}))

	c := autofill.NewCoordinator(s, agent, logging.NewWriterLogger("autofill", &bytes.Buffer{}))
	report, err := c.Run(ctx)
	require.NoError(t, err)
	assert.True(t, report.Autofill.OK())
	assert.True(t, report.Trigger.OK())
	assert.Equal(t, "14", page.values[FieldEndHour])

	iv, _, err := store.ReserveInfo(ctx, s)
	require.NoError(t, err)
	assert.True(t, iv.IsEmpty())
}
