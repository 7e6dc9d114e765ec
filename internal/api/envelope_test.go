package api

import (
	"errors"
	"testing"
)

func TestDecodeOne(t *testing.T) {
	env, err := DecodeOne[User]([]byte(`{"data":{"id":1,"email":"a@x.com","extra":true},"meta":"tok-1"}`))
	if err != nil {
		t.Fatalf("DecodeOne() error = %v", err)
	}
	if env.Data.ID != 1 || env.Data.Email != "a@x.com" {
		t.Errorf("unexpected user %+v", env.Data)
	}
	if env.Meta == nil || *env.Meta != "tok-1" {
		t.Errorf("expected meta tok-1, got %v", env.Meta)
	}
}

func TestDecodeOne_NoMeta(t *testing.T) {
	for _, body := range []string{`{"data":{"id":1}}`, `{"data":{"id":1},"meta":null}`} {
		env, err := DecodeOne[User]([]byte(body))
		if err != nil {
			t.Fatalf("DecodeOne(%s) error = %v", body, err)
		}
		if env.Meta != nil {
			t.Errorf("DecodeOne(%s) meta = %q, want nil", body, *env.Meta)
		}
	}
}

func TestDecodeMany(t *testing.T) {
	env, err := DecodeMany[Post]([]byte(`{"data":[{"id":1},{"id":2,"body":"hi"}]}`))
	if err != nil {
		t.Fatalf("DecodeMany() error = %v", err)
	}
	if len(env.Data) != 2 || env.Data[0].ID != 1 || env.Data[1].ID != 2 || env.Data[1].Body != "hi" {
		t.Errorf("unexpected posts %+v", env.Data)
	}
}

func TestDecodeMany_EmptyPage(t *testing.T) {
	env, err := DecodeMany[Post]([]byte(`{"data":[]}`))
	if err != nil {
		t.Fatalf("DecodeMany() error = %v", err)
	}
	if env.Data == nil || len(env.Data) != 0 {
		t.Errorf("expected empty non-nil page, got %#v", env.Data)
	}
}

func TestDecode_Failures(t *testing.T) {
	tests := []struct {
		name string
		many bool
		body string
	}{
		{"malformed json", false, `{"data":`},
		{"empty body", false, ``},
		{"missing data", false, `{"meta":"tok"}`},
		{"null data", false, `{"data":null}`},
		{"top-level array", false, `[{"id":1}]`},
		{"top-level null", true, `null`},
		{"object expected", false, `{"data":[{"id":1}]}`},
		{"field type mismatch", false, `{"data":{"id":"one"}}`},
		{"meta not a string", false, `{"data":{"id":1},"meta":42}`},
		{"array expected", true, `{"data":{"id":1}}`},
		{"null element", true, `{"data":[{"id":1},null]}`},
		{"element mismatch", true, `{"data":[{"id":1},{"id":[]}]}`},
		{"many missing data", true, `{}`},
		{"missing id", false, `{"data":{},"meta":"tok"}`},
		{"null id", false, `{"data":{"id":null,"email":"a@x.com"}}`},
		{"element missing id", true, `{"data":[{"id":1},{"body":"x"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			if tt.many {
				var env *Envelope[[]Post]
				env, err = DecodeMany[Post]([]byte(tt.body))
				if env != nil {
					t.Errorf("expected no partial envelope, got %+v", env)
				}
			} else {
				var env *Envelope[User]
				env, err = DecodeOne[User]([]byte(tt.body))
				if env != nil {
					t.Errorf("expected no partial envelope, got %+v", env)
				}
			}
			if err == nil {
				t.Fatal("expected error")
			}
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Errorf("expected *DecodeError, got %T", err)
			}
			if !errors.Is(err, ErrDecode) {
				t.Error("expected errors.Is(err, ErrDecode)")
			}
			if errors.Is(err, ErrTransport) {
				t.Error("decode failure must not classify as transport")
			}
		})
	}
}
