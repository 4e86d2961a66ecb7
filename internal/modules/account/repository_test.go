package account

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/* TestIdentityCondition checks that the email-or-username match never lets an
empty identifier into the SQL: an email-only login must not also match rows
whose username is absent. */
func TestIdentityCondition(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		username string
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "email only",
			email:    "user@example.com",
			wantSQL:  "(email = ?)",
			wantArgs: []any{"user@example.com"},
		},
		{
			name:     "username only",
			username: "user1",
			wantSQL:  "(username = ?)",
			wantArgs: []any{"user1"},
		},
		{
			name:     "both",
			email:    "user@example.com",
			username: "user1",
			wantSQL:  "(email = ? OR username = ?)",
			wantArgs: []any{"user@example.com", "user1"},
		},
		{
			name:     "neither matches nothing",
			wantSQL:  "email = ?",
			wantArgs: []any{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := identityCondition(tt.email, tt.username).ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

/* TestNullIfEmpty confirms absent usernames persist as NULL so they stay out
of the partial unique index. */
func TestNullIfEmpty(t *testing.T) {
	assert.Nil(t, nullIfEmpty(""))
	assert.Equal(t, "user1", nullIfEmpty("user1"))
}

/* TestAccountSelectColumns confirms the nullable username column scans back
into a plain string. */
func TestAccountSelectColumns(t *testing.T) {
	assert.Contains(t, accountSelectColumns, "COALESCE(username, '') AS username")
	assert.NotContains(t, accountSelectColumns, "username")
	assert.Len(t, accountSelectColumns, len(accountColumns))
}
