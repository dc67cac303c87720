// Package auth is the thin side-table mapping bearer tokens to identities.
// Credential storage and registration live outside this system; the core only
// needs to know who a request belongs to and whether they are an admin.
package auth

import "shellbox/internal/config"

// Identity is the authenticated principal attached to every request.
type Identity struct {
	Name  string `json:"name"`
	Admin bool   `json:"admin"`
}

// Table resolves static tokens declared in config.
type Table struct {
	byToken map[string]Identity
}

func NewTable(users map[string]config.User) *Table {
	t := &Table{byToken: make(map[string]Identity, len(users))}
	for name, u := range users {
		if u.Token == "" {
			continue
		}
		t.byToken[u.Token] = Identity{Name: name, Admin: u.Admin}
	}
	return t
}

// Enabled reports whether any users are configured. With an empty table the
// server runs open (dev mode).
func (t *Table) Enabled() bool {
	return len(t.byToken) > 0
}

// Lookup resolves a bearer token to an identity.
func (t *Table) Lookup(token string) (Identity, bool) {
	id, ok := t.byToken[token]
	return id, ok
}
