// Package credentials derives the initial login identifier and password for an
// approved account. The derivation is deterministic and low entropy; accounts
// are expected to change the password after first sign in.
package credentials

import (
	"fmt"
	"strings"
)

const (
	userIDPrefixLen   = 4
	passwordPrefixLen = 4
)

// Credentials is the derived login pair.
type Credentials struct {
	UserID   string
	Password string
}

// UserID returns the first four characters of firstName followed by the last
// character of lastName, lower cased.
func UserID(firstName, lastName string) string {
	first := []rune(strings.TrimSpace(firstName))
	last := []rune(strings.TrimSpace(lastName))

	var b strings.Builder
	b.WriteString(string(first[:min(userIDPrefixLen, len(first))]))
	if len(last) > 0 {
		b.WriteRune(last[len(last)-1])
	}
	return strings.ToLower(b.String())
}

// Password returns the first four characters of fatherName, lower cased, then
// "#" and the day segment of a YYYY-MM-DD dob taken verbatim.
func Password(fatherName, dob string) (string, error) {
	parts := strings.Split(strings.TrimSpace(dob), "-")
	if len(parts) < 3 || parts[2] == "" {
		return "", fmt.Errorf("dob %q is not in YYYY-MM-DD form", dob)
	}
	father := []rune(strings.TrimSpace(fatherName))
	prefix := strings.ToLower(string(father[:min(passwordPrefixLen, len(father))]))
	return prefix + "#" + parts[2], nil
}

// Derive computes both credentials for a registrant.
func Derive(firstName, lastName, fatherName, dob string) (Credentials, error) {
	password, err := Password(fatherName, dob)
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{
		UserID:   UserID(firstName, lastName),
		Password: password,
	}, nil
}
