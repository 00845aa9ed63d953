// Package suite resolves namespace ("suite") names shared by all backend engines.
package suite

import (
	"regexp"
	"strings"
)

// Default is the namespace used when no suite, or an invalid one, is requested.
const Default = "standard"

var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Resolve returns name if it is a valid suite name and Default otherwise.
func Resolve(name string) string {
	name = strings.TrimSpace(name)
	if !validName.MatchString(name) {
		return Default
	}

	return name
}
