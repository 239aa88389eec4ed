package reservation

import (
	"regexp"
	"strings"
)

// NoLabSelected is the placeholder value of the lab dropdown.
const NoLabSelected = "0"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationError is a user-facing rejection of profile input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate checks profile input before it is saved. The password is optional
// here; autofill still requires it.
func (p Profile) Validate() error {
	if strings.TrimSpace(p.UserName) == "" || strings.TrimSpace(p.UserEmail) == "" ||
		strings.TrimSpace(p.UserPhone) == "" || p.UserLab == "" || p.UserLab == NoLabSelected {
		return &ValidationError{Message: "Please fill all fields and select a lab."}
	}
	if !emailPattern.MatchString(p.UserEmail) {
		return &ValidationError{Message: "Please enter a valid email address."}
	}
	return nil
}

// Masked returns a copy with the password hidden, for display and logs.
func (p Profile) Masked() Profile {
	if p.UserPassword != "" {
		p.UserPassword = strings.Repeat("*", len(p.UserPassword))
	}
	return p
}
