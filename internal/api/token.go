package api

// TokenState is the auth token held by a client. The zero value holds no token.
type TokenState struct {
	value *string
}

// NewTokenState wraps a loaded token. Empty strings are treated as absent.
func NewTokenState(value *string) TokenState {
	if value == nil || *value == "" {
		return TokenState{}
	}
	v := *value
	return TokenState{value: &v}
}

// Value returns a copy of the token, or nil.
func (s TokenState) Value() *string {
	if s.value == nil {
		return nil
	}
	v := *s.value
	return &v
}

// Held reports whether a token is held.
func (s TokenState) Held() bool { return s.value != nil }

// PersistEffect tells the caller what must be written to the TokenStore.
type PersistEffect struct {
	// Persist is false when nothing changed.
	Persist bool
	Value   *string
}

// UpdateToken applies a token received from the backend.
// A nil or empty token leaves the state unchanged; the token is never cleared here.
func UpdateToken(state TokenState, next *string) (TokenState, PersistEffect) {
	if next == nil || *next == "" {
		return state, PersistEffect{}
	}
	if state.value != nil && *state.value == *next {
		return state, PersistEffect{}
	}
	ns := NewTokenState(next)
	return ns, PersistEffect{Persist: true, Value: ns.Value()}
}
