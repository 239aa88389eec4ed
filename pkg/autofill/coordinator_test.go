package autofill

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/labtime/pkg/logging"
	"github.com/entrhq/labtime/pkg/reservation"
	"github.com/entrhq/labtime/pkg/store"
)

type fakeMessenger struct {
	sent    []Message
	replies map[string]Reply
	errs    map[string]error
}

func (f *fakeMessenger) Send(_ context.Context, msg Message) (Reply, error) {
	f.sent = append(f.sent, msg)
	if err := f.errs[msg.Type]; err != nil {
		return Reply{}, err
	}
	if reply, ok := f.replies[msg.Type]; ok {
		return reply, nil
	}
	return Success(), nil
}

var testProfile = reservation.Profile{
	UserName:     "Taro Yamada",
	UserEmail:    "taro@example.ac.jp",
	UserPhone:    "1234",
	UserPassword: "secret",
	UserLab:      "17",
}

func setup(t *testing.T, m Messenger) (*Coordinator, *store.MemoryStore, *bytes.Buffer) {
	t.Helper()
	s := store.NewMemoryStore()
	var logs bytes.Buffer
	return NewCoordinator(s, m, logging.NewWriterLogger("autofill", &logs)), s, &logs
}

func TestRunSendsBothMessages(t *testing.T) {
	ctx := context.Background()
	m := &fakeMessenger{}
	c, s, _ := setup(t, m)
	iv := reservation.Interval{StartHour: "10", StartMinute: "00", EndHour: "11", EndMinute: "30"}
	require.NoError(t, store.SetProfile(ctx, s, testProfile))
	require.NoError(t, store.SetReserveInfo(ctx, s, iv))

	report, err := c.Run(ctx)
	require.NoError(t, err)
	assert.True(t, report.Autofill.OK())
	assert.True(t, report.Trigger.OK())

	require.Len(t, m.sent, 2)
	assert.Equal(t, TypeAutofill, m.sent[0].Type)
	assert.Equal(t, testProfile, m.sent[0].Profile())
	require.NotNil(t, m.sent[0].ReserveInfo)
	assert.Equal(t, iv, *m.sent[0].ReserveInfo)
	assert.Equal(t, TypeTriggerRequestButton, m.sent[1].Type)
}

func TestRunEmptyIntervalOmitsTimes(t *testing.T) {
	ctx := context.Background()
	m := &fakeMessenger{}
	c, s, _ := setup(t, m)
	require.NoError(t, store.SetProfile(ctx, s, testProfile))
	require.NoError(t, store.ClearReserveInfo(ctx, s))

	_, err := c.Run(ctx)
	require.NoError(t, err)
	require.Len(t, m.sent, 2)
	assert.Nil(t, m.sent[0].ReserveInfo)
	assert.Equal(t, "Taro Yamada", m.sent[0].UserName)
}

func TestRunRequiredDataMissing(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		profile reservation.Profile
		setIv   bool
	}{
		{"nothing stored", reservation.Profile{}, false},
		{"no interval", testProfile, false},
		{"no password", reservation.Profile{UserName: "a", UserEmail: "a@b.c", UserPhone: "1", UserLab: "2"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &fakeMessenger{}
			c, s, logs := setup(t, m)
			require.NoError(t, store.SetProfile(ctx, s, tt.profile))
			if tt.setIv {
				require.NoError(t, store.ClearReserveInfo(ctx, s))
			}

			report, err := c.Run(ctx)
			assert.ErrorIs(t, err, ErrRequiredDataMissing)
			assert.Nil(t, report)
			assert.Empty(t, m.sent)
			assert.Contains(t, logs.String(), "Required data not found")
		})
	}
}

func TestRunExchangesAreIndependent(t *testing.T) {
	ctx := context.Background()
	m := &fakeMessenger{
		errs:    map[string]error{TypeAutofill: errors.New("no receiving end")},
		replies: map[string]Reply{TypeTriggerRequestButton: Failure("Request button not found.")},
	}
	c, s, logs := setup(t, m)
	require.NoError(t, store.SetProfile(ctx, s, testProfile))
	require.NoError(t, store.ClearReserveInfo(ctx, s))

	report, err := c.Run(ctx)
	require.Error(t, err)
	require.NotNil(t, report)
	assert.Len(t, m.sent, 2)

	assert.False(t, report.Autofill.Sent)
	assert.False(t, report.Trigger.OK())
	assert.Equal(t, "Request button not found.", report.Trigger.Reply.Error)
	assert.Contains(t, err.Error(), "no receiving end")
	assert.Contains(t, err.Error(), "Request button not found.")
	assert.Contains(t, logs.String(), "Failed to click request button")
}

func TestReplyWithoutError(t *testing.T) {
	r := &Report{Trigger: Exchange{Sent: true, Reply: Reply{Status: StatusFailure}}}
	require.Error(t, r.Err())
	assert.Contains(t, r.Err().Error(), "Unknown error")
	assert.NoError(t, (&Report{}).Err())
}
