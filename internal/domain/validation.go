package domain

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Event and participant field bounds.
const (
	MinEventNameLen    = 3
	MaxEventNameLen    = 100
	MinMaxParticipants = 10
	MaxMaxParticipants = 10000
	MaxUsernameLen     = 50
	MaxParticipantID   = 128
)

// EventCodePattern is the accepted shape of an event code.
var EventCodePattern = regexp.MustCompile(`^[a-z0-9-]{3,50}$`)

func ValidateEventCode(code string) error {
	if !EventCodePattern.MatchString(code) {
		return Invalid("invalid_event_code", "event code %q must match %s", code, EventCodePattern)
	}
	return nil
}

func ValidateEventName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < MinEventNameLen || n > MaxEventNameLen {
		return Invalid("invalid_event_name", "event name must be %d-%d characters", MinEventNameLen, MaxEventNameLen)
	}
	return nil
}

func ValidateMaxParticipants(max int) error {
	if max < MinMaxParticipants || max > MaxMaxParticipants {
		return Invalid("invalid_max_participants", "max participants must be between %d and %d", MinMaxParticipants, MaxMaxParticipants)
	}
	return nil
}

// ValidateUsername rejects blank, oversized or control-character usernames.
func ValidateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return Invalid("invalid_username", "username is required")
	}
	if utf8.RuneCountInString(username) > MaxUsernameLen {
		return Invalid("invalid_username", "username must be at most %d characters", MaxUsernameLen)
	}
	for _, r := range username {
		if unicode.IsControl(r) {
			return Invalid("invalid_username", "username contains control characters")
		}
	}
	return nil
}

func ValidateParticipantID(id string) error {
	if strings.TrimSpace(id) == "" || len(id) > MaxParticipantID || strings.ContainsAny(id, "/\\") {
		return Invalid("invalid_participant_id", "participant id must be 1-%d characters without slashes", MaxParticipantID)
	}
	return nil
}

// MapSize bounds participant coordinates: both axes lie in [0, MapSize].
const MapSize = 100

func ValidateCoordinates(x, y int) error {
	if x < 0 || x > MapSize || y < 0 || y > MapSize {
		return Invalid("invalid_coordinates", "coordinates must lie within 0-%d", MapSize)
	}
	return nil
}
