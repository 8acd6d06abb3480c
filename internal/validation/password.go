package validation

import (
	"fmt"
	"regexp"
)

const (
	minPasswordLength = 6
	// bcrypt ignores everything past 72 bytes.
	maxPasswordLength = 72
)

var channelNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{4,25}$`)

// ValidatePassword checks the admin password length rules.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("password must not exceed %d bytes", maxPasswordLength)
	}
	return nil
}

// ValidateChannelName checks a Twitch login name.
func ValidateChannelName(name string) error {
	if !channelNameRegex.MatchString(name) {
		return fmt.Errorf("channel must be 4-25 characters of letters, numbers, and underscores")
	}
	return nil
}
