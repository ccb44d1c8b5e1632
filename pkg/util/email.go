package util

import (
	"net"
	"net/mail"
	"strings"
)

// IsValidEmailSyntax reports whether address parses as an RFC 5322 address.
func IsValidEmailSyntax(address string) bool {
	parsed, err := mail.ParseAddress(address)
	return err == nil && parsed.Address == address
}

// IsDeliverableEmail checks syntax and then that the domain publishes MX
// records. It does a live DNS lookup, so callers on a request path should
// treat a failure as "unknown" rather than "invalid".
func IsDeliverableEmail(address string) bool {
	if !IsValidEmailSyntax(address) {
		return false
	}

	at := strings.LastIndex(address, "@")
	domain := address[at+1:]

	records, err := net.LookupMX(domain)
	return err == nil && len(records) > 0
}
