// Package hub is a small Hugging Face hub client holding an explicit
// credential session: the token in use and the identity behind it.
package hub

import (
	"context"
	"encoding/json"
)

// DefaultEndpoint is the public Hugging Face hub.
const DefaultEndpoint = "https://huggingface.co"

// Session is a credential session against the hub.
type Session interface {
	// WhoAmI returns the identity of the current credentials.
	WhoAmI(ctx context.Context) (Identity, error)
	// Login validates token and, on success, makes it the session credential.
	Login(ctx context.Context, token string) error
}

// TokenSource exposes the current session token to other hub consumers
// such as the hosted inference backend.
type TokenSource interface {
	Token() string
}

// Identity is the subset of whoami-v2 fields the actions care about. Raw
// keeps the full JSON object as returned by the hub.
type Identity struct {
	Type     string         `json:"type"`
	Name     string         `json:"name"`
	Fullname string         `json:"fullname,omitempty"`
	Email    string         `json:"email,omitempty"`
	Orgs     []Org          `json:"orgs,omitempty"`
	Raw      map[string]any `json:"-"`
}

// Org is an organization membership.
type Org struct {
	Name string `json:"name"`
}

// Body returns the raw whoami object when available, otherwise the typed view.
func (id Identity) Body() any {
	if id.Raw != nil {
		return id.Raw
	}
	return id
}

func decodeIdentity(b []byte) (Identity, error) {
	var id Identity
	if err := json.Unmarshal(b, &id); err != nil {
		return Identity{}, err
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err == nil {
		id.Raw = raw
	}
	return id, nil
}
