// Package credstore owns the bearer credential lifecycle. The token is
// opaque: no decoding or expiry inspection happens here, validity is decided
// empirically by the first rejected request.
package credstore

import "github.com/premiumclub/portal/internal/kv"

const tokenKey = "token"

// Store persists the bearer credential across restarts through an injected
// key/value capability.
type Store struct {
	kv kv.Store
}

func New(store kv.Store) *Store {
	return &Store{kv: store}
}

// Get returns the stored credential, if any. Implements the credential
// source the service clients inject into the Authorization header.
func (s *Store) Get() (string, bool) {
	v, ok := s.kv.Get(tokenKey)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (s *Store) Set(token string) error {
	return s.kv.Set(tokenKey, token)
}

func (s *Store) Clear() error {
	return s.kv.Delete(tokenKey)
}
