// Package autofill forwards the stored profile and selected interval to the
// reservation page and triggers the request button.
package autofill

import (
	"context"

	"github.com/entrhq/labtime/pkg/reservation"
)

// Message types understood by the page agent.
const (
	TypeAutofill             = "AUTOFILL"
	TypeTriggerRequestButton = "TRIGGER_REQUEST_BUTTON"
)

// Reply statuses.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Message is one request to the page context.
type Message struct {
	Type string `json:"type"`

	UserName     string `json:"userName,omitempty"`
	UserEmail    string `json:"userEmail,omitempty"`
	UserPhone    string `json:"userPhone,omitempty"`
	UserPassword string `json:"userPassword,omitempty"`
	UserLab      string `json:"userLab,omitempty"`

	// ReserveInfo is nil when no interval is selected; the time fields are
	// then left as they are on the page.
	ReserveInfo *reservation.Interval `json:"reserveInfo,omitempty"`
}

// NewAutofill builds an AUTOFILL message. An empty interval is omitted.
func NewAutofill(p reservation.Profile, iv reservation.Interval) Message {
	msg := Message{
		Type:         TypeAutofill,
		UserName:     p.UserName,
		UserEmail:    p.UserEmail,
		UserPhone:    p.UserPhone,
		UserPassword: p.UserPassword,
		UserLab:      p.UserLab,
	}
	if !iv.IsEmpty() {
		msg.ReserveInfo = &iv
	}
	return msg
}

// Profile returns the identity fields carried by an AUTOFILL message.
func (m Message) Profile() reservation.Profile {
	return reservation.Profile{
		UserName:     m.UserName,
		UserEmail:    m.UserEmail,
		UserPhone:    m.UserPhone,
		UserPassword: m.UserPassword,
		UserLab:      m.UserLab,
	}
}

// Reply is the page context's answer to a Message.
type Reply struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Success returns a success reply.
func Success() Reply {
	return Reply{Status: StatusSuccess}
}

// Failure returns a failure reply carrying msg.
func Failure(msg string) Reply {
	return Reply{Status: StatusFailure, Error: msg}
}

// OK reports whether the reply signals success.
func (r Reply) OK() bool {
	return r.Status == StatusSuccess
}

// Messenger delivers a message to the page context and waits for its reply.
// A transport failure is returned as an error; a page-side failure is a
// Reply with StatusFailure.
type Messenger interface {
	Send(ctx context.Context, msg Message) (Reply, error)
}
