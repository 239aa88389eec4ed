// Package reservation holds the records exchanged between the scraper, the
// timeline, the selection engine, and the autofill coordinator.
package reservation

import (
	"strconv"
)

// Record is one booked slot scraped from the reservation list.
// Times are "H:MM" and dates are "M/D".
type Record struct {
	StartDate string `json:"startDate"`
	StartTime string `json:"startTime"`
	EndDate   string `json:"endDate"`
	EndTime   string `json:"endTime"`
	Name      string `json:"name"`
	Lab       string `json:"lab"`
	LabInfo   string `json:"labInfo"`
}

// CrossesMidnight reports whether the reservation ends on a later date.
func (r Record) CrossesMidnight() bool {
	return r.EndDate != "" && r.EndDate != r.StartDate
}

// Profile is the occupant identity the reservation form asks for.
type Profile struct {
	UserName     string `json:"userName" yaml:"name"`
	UserEmail    string `json:"userEmail" yaml:"email"`
	UserPhone    string `json:"userPhone" yaml:"phone"`
	UserPassword string `json:"userPassword" yaml:"password"`
	UserLab      string `json:"userLab" yaml:"lab"`
}

// Complete reports whether every field needed to autofill the form is set.
func (p Profile) Complete() bool {
	return p.UserName != "" && p.UserEmail != "" && p.UserPhone != "" &&
		p.UserPassword != "" && p.UserLab != ""
}

// Interval is the user's chosen slot, in the string form the page's time
// selects use: unpadded hours, zero-padded minutes.
type Interval struct {
	StartHour   string `json:"startHour,omitempty"`
	StartMinute string `json:"startMinute,omitempty"`
	EndHour     string `json:"endHour,omitempty"`
	EndMinute   string `json:"endMinute,omitempty"`
}

// IsEmpty reports whether the interval is the cleared "{}" value.
func (i Interval) IsEmpty() bool {
	return i.StartHour == "" && i.StartMinute == "" && i.EndHour == "" && i.EndMinute == ""
}

// Complete reports whether all four time fields are present.
func (i Interval) Complete() bool {
	return i.StartHour != "" && i.StartMinute != "" && i.EndHour != "" && i.EndMinute != ""
}

// StartMinuteOfDay returns the start as minutes since midnight.
func (i Interval) StartMinuteOfDay() int {
	return toMinutes(i.StartHour, i.StartMinute)
}

// EndMinuteOfDay returns the end as minutes since midnight.
func (i Interval) EndMinuteOfDay() int {
	return toMinutes(i.EndHour, i.EndMinute)
}

// Duration returns the length of the interval in minutes.
func (i Interval) Duration() int {
	return i.EndMinuteOfDay() - i.StartMinuteOfDay()
}

func toMinutes(hour, minute string) int {
	h, _ := strconv.Atoi(hour)
	m, _ := strconv.Atoi(minute)
	return h*60 + m
}

// FacilityMetadata describes the scraped page itself.
type FacilityMetadata struct {
	FacilityName string `json:"facilityName"`

	// FirstImgAlt is the alt text of the first schedule cell. A non-empty value
	// may describe a reservation that started the previous day.
	FirstImgAlt string `json:"firstImgAlt"`
}
