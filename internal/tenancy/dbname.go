package tenancy

import (
	"encoding/base32"
	"strings"
)

// dbNamePrefix marks every tenant database so operators can tell them
// apart from anything else living on the cluster.
const dbNamePrefix = "tenant_"

// Base32 with the extended hex alphabet, lowercased and unpadded, so
// the output stays a valid unquoted Postgres identifier while the
// encoding remains injective.
var dbNameEncoding = base32.HexEncoding.WithPadding(base32.NoPadding)

// DatabaseName derives the tenant database name from a subdomain. The
// function is pure and deterministic: distinct sanitized subdomains
// always produce distinct names. It is computed once at provisioning
// and stored on the directory record, never recomputed.
func DatabaseName(subdomain string) string {
	s := SanitizeSubdomain(subdomain)
	return dbNamePrefix + strings.ToLower(dbNameEncoding.EncodeToString([]byte(s)))
}

// SanitizeSubdomain lowercases the subdomain and strips every
// character that is not a letter, digit or hyphen, the set valid in a
// DNS label.
func SanitizeSubdomain(subdomain string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(subdomain)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}
