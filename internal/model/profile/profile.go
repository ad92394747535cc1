package profile

import (
	"errors"
	"fmt"
	"strings"
)

// MaxTrustedContacts bounds the contact list a user may configure.
const MaxTrustedContacts = 3

var (
	ErrTooManyContacts = errors.New("too many trusted contacts")
	ErrBadTimeOfDay    = errors.New("time of day must be HH:MM")
)

// TrustedContact is a person the user chose to be notified when the
// conversation enters crisis mode.
type TrustedContact struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Profile holds the user-editable session configuration. It is read by the
// risk, crisis and reminder components but mutated only through Validate-d
// user edits.
type Profile struct {
	Language  string           `json:"language"`
	Theme     string           `json:"theme"`
	QuietMode bool             `json:"quietMode"`
	SleepTime string           `json:"sleepTime,omitempty"`
	WakeTime  string           `json:"wakeTime,omitempty"`
	Contacts  []TrustedContact `json:"contacts,omitempty"`
}

// Default returns the profile used before the user edits anything.
func Default() Profile {
	return Profile{
		Language: "ru",
		Theme:    "light",
		WakeTime: "09:00",
	}
}

// FirstContact returns the first configured trusted contact, or false when
// none is configured.
func (p Profile) FirstContact() (TrustedContact, bool) {
	for _, c := range p.Contacts {
		if strings.TrimSpace(c.Name) != "" || strings.TrimSpace(c.Address) != "" {
			return c, true
		}
	}
	return TrustedContact{}, false
}

// Validate checks the user-supplied fields before the profile is accepted.
func (p Profile) Validate() error {
	if len(p.Contacts) > MaxTrustedContacts {
		return fmt.Errorf("%w: got %d, max %d", ErrTooManyContacts, len(p.Contacts), MaxTrustedContacts)
	}
	for _, field := range []string{p.SleepTime, p.WakeTime} {
		if field == "" {
			continue
		}
		if !validTimeOfDay(field) {
			return fmt.Errorf("%w: %q", ErrBadTimeOfDay, field)
		}
	}
	return nil
}

func validTimeOfDay(s string) bool {
	parts := strings.Split(s, ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return false
	}
	h, m := 0, 0
	if _, err := fmt.Sscanf(s, "%02d:%02d", &h, &m); err != nil {
		return false
	}
	return h >= 0 && h <= 23 && m >= 0 && m <= 59
}
