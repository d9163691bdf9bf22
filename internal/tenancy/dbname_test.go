package tenancy

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabaseNameDeterministic(t *testing.T) {
	assert.Equal(t, DatabaseName("acme"), DatabaseName("acme"))
	assert.Equal(t, DatabaseName("acme"), DatabaseName("ACME"))
	assert.Equal(t, DatabaseName("acme"), DatabaseName("  acme  "))
}

func TestDatabaseNameDistinctInputs(t *testing.T) {
	subdomains := []string{
		"acme", "acme2", "acm", "bistro", "bistr-o",
		"cafe-one", "cafeone", "a", "aa", "the-long-subdomain-name",
	}
	seen := make(map[string]string)
	for _, s := range subdomains {
		name := DatabaseName(s)
		prev, dup := seen[name]
		require.False(t, dup, "collision between %q and %q", s, prev)
		seen[name] = s
	}
}

func TestDatabaseNameIdentifierSafe(t *testing.T) {
	valid := regexp.MustCompile(`^tenant_[a-z0-9]+$`)
	for _, s := range []string{"acme", "Acme Cafe!", "sushi_bar", "über-küche"} {
		name := DatabaseName(s)
		assert.True(t, valid.MatchString(name), "unsafe identifier %q for subdomain %q", name, s)
	}
}

func TestDatabaseNameReversible(t *testing.T) {
	name := DatabaseName("acme")
	encoded := strings.TrimPrefix(name, "tenant_")
	decoded, err := dbNameEncoding.DecodeString(strings.ToUpper(encoded))
	require.NoError(t, err)
	assert.Equal(t, "acme", string(decoded))
}

func TestSanitizeSubdomain(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"acme", "acme"},
		{"ACME", "acme"},
		{"Acme Cafe!", "acmecafe"},
		{"my-shop", "my-shop"},
		{"drop;table", "droptable"},
		{"  spaced  ", "spaced"},
		{"!!!", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeSubdomain(tt.in), "input %q", tt.in)
	}
}
