package relay

import "regexp"

var idUnsafe = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// DeriveUserID maps an email to the cross-system user key by replacing every
// character outside [A-Za-z0-9_-] with an underscore. The mapping is pure, so
// repeated registrations of the same email always resolve to the same id.
func DeriveUserID(email string) string {
	return idUnsafe.ReplaceAllString(email, "_")
}
