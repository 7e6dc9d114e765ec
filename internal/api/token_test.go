package api

import "testing"

func strp(s string) *string { return &s }

func TestUpdateToken(t *testing.T) {
	tests := []struct {
		name        string
		current     *string
		next        *string
		wantValue   *string
		wantPersist bool
	}{
		{"first token", nil, strp("tok-1"), strp("tok-1"), true},
		{"replaced", strp("tok-1"), strp("tok-2"), strp("tok-2"), true},
		{"same token", strp("tok-1"), strp("tok-1"), strp("tok-1"), false},
		{"no meta keeps token", strp("tok-1"), nil, strp("tok-1"), false},
		{"empty meta keeps token", strp("tok-1"), strp(""), strp("tok-1"), false},
		{"nothing held, nothing new", nil, nil, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, effect := UpdateToken(NewTokenState(tt.current), tt.next)
			got := state.Value()
			if (got == nil) != (tt.wantValue == nil) || (got != nil && *got != *tt.wantValue) {
				t.Errorf("state = %v, want %v", got, tt.wantValue)
			}
			if effect.Persist != tt.wantPersist {
				t.Errorf("Persist = %v, want %v", effect.Persist, tt.wantPersist)
			}
			if effect.Persist && (effect.Value == nil || *effect.Value != *tt.next) {
				t.Errorf("effect value = %v, want %q", effect.Value, *tt.next)
			}
		})
	}
}

func TestTokenState_ValueIsCopy(t *testing.T) {
	src := "tok"
	s := NewTokenState(&src)
	src = "changed"
	v := s.Value()
	*v = "mutated"
	if got := s.Value(); *got != "tok" {
		t.Errorf("state leaked mutation: %q", *got)
	}
}

func TestNewTokenState_EmptyIsAbsent(t *testing.T) {
	if NewTokenState(strp("")).Held() {
		t.Error("empty token should not be held")
	}
	if (TokenState{}).Held() {
		t.Error("zero value should not hold a token")
	}
}
