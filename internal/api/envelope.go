package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var errMissingData = errors.New(`missing required key "data"`)

// Envelope is the standard response wrapper.
// Meta optionally carries a freshly issued auth token.
type Envelope[T any] struct {
	Data T       `json:"data"`
	Meta *string `json:"meta,omitempty"`
}

type rawEnvelope struct {
	Data json.RawMessage `json:"data"`
	Meta json.RawMessage `json:"meta"`
}

// DecodeOne decodes an envelope around a single entity.
func DecodeOne[T any](b []byte) (*Envelope[T], error) {
	raw, meta, err := splitEnvelope(b)
	if err != nil {
		return nil, err
	}
	var data T
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if err := checkRequired(data, raw); err != nil {
		return nil, &DecodeError{Err: fmt.Errorf("data: %w", err)}
	}
	return &Envelope[T]{Data: data, Meta: meta}, nil
}

// DecodeMany decodes an envelope around an ordered sequence of entities.
// A null element or an element missing a required field fails the whole decode.
func DecodeMany[T any](b []byte) (*Envelope[[]T], error) {
	raw, meta, err := splitEnvelope(b)
	if err != nil {
		return nil, err
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, &DecodeError{Err: err}
	}
	data := make([]T, len(items))
	for i, item := range items {
		if isNull(item) {
			return nil, &DecodeError{Err: fmt.Errorf("data[%d] is null", i)}
		}
		if err := json.Unmarshal(item, &data[i]); err != nil {
			return nil, &DecodeError{Err: fmt.Errorf("data[%d]: %w", i, err)}
		}
		if err := checkRequired(data[i], item); err != nil {
			return nil, &DecodeError{Err: fmt.Errorf("data[%d]: %w", i, err)}
		}
	}
	return &Envelope[[]T]{Data: data, Meta: meta}, nil
}

func splitEnvelope(b []byte) (json.RawMessage, *string, error) {
	var raw rawEnvelope
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, nil, &DecodeError{Err: err}
	}
	if isNull(raw.Data) {
		return nil, nil, &DecodeError{Err: errMissingData}
	}
	if isNull(raw.Meta) {
		return raw.Data, nil, nil
	}
	var meta string
	if err := json.Unmarshal(raw.Meta, &meta); err != nil {
		return nil, nil, &DecodeError{Err: fmt.Errorf("meta: %w", err)}
	}
	return raw.Data, &meta, nil
}

// requiredKeyer is implemented by entities that cannot be decoded without
// certain keys, such as a zero-valued id.
type requiredKeyer interface {
	requiredKeys() []string
}

// checkRequired fails if v declares required keys that raw lacks or holds as null.
func checkRequired(v any, raw json.RawMessage) error {
	rk, ok := v.(requiredKeyer)
	if !ok {
		return nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return err
	}
	for _, key := range rk.requiredKeys() {
		if isNull(fields[key]) {
			return fmt.Errorf("missing required field %q", key)
		}
	}
	return nil
}

// isNull reports an absent or JSON null value.
func isNull(m json.RawMessage) bool {
	return len(m) == 0 || bytes.Equal(m, []byte("null"))
}
