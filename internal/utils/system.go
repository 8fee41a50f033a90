package utils

import (
	"os/user"
	"regexp"
	"strings"
)

var (
	usernameInvalidChars = regexp.MustCompile(`[^a-z0-9._-]`)
	usernameRepeats      = regexp.MustCompile(`[-_.]{2,}`)
)

// GetUsername returns the operating system username.
func GetUsername() (string, error) {
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return u.Username, nil
}

// SanitizeUsername turns an arbitrary name into an account name: lowercase
// letters, digits, '.', '_' and '-', starting with a letter or digit and at
// most 64 characters.
func SanitizeUsername(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))

	// Windows reports DOMAIN\user.
	if i := strings.LastIndex(name, `\`); i >= 0 {
		name = name[i+1:]
	}
	name = strings.ReplaceAll(name, " ", "-")
	name = usernameInvalidChars.ReplaceAllString(name, "")
	name = usernameRepeats.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-_.")

	if len(name) > 64 {
		name = strings.TrimRight(name[:64], "-_.")
	}
	return name
}

// DefaultUsername suggests an account name from the OS user, or "" if none
// can be derived.
func DefaultUsername() string {
	name, err := GetUsername()
	if err != nil {
		return ""
	}
	return SanitizeUsername(name)
}
