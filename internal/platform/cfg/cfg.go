// Package cfg decodes free-form driver settings from the config file.
package cfg

import (
	"fmt"
	"sort"

	"github.com/mitchellh/mapstructure"
)

// Setter is implemented by settings structs that fill in their own defaults.
type Setter interface {
	ApplyDefaults()
}

// Decode decodes input into the struct pointed to by c.
// Duration fields accept strings such as "3s". A nil input still applies defaults.
// If c implements Setter, ApplyDefaults() runs after decoding.
func Decode(input map[string]any, c any) error {
	_, err := decode(input, c)
	return err
}

// DecodeStrict is Decode but fails when input holds keys c does not know.
func DecodeStrict(input map[string]any, c any) error {
	unused, err := decode(input, c)
	if err != nil {
		return err
	}
	if len(unused) > 0 {
		return fmt.Errorf("unused config keys: %v", unused)
	}
	return nil
}

func decode(input map[string]any, c any) ([]string, error) {
	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Metadata:         &md,
		Result:           c,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return nil, err
	}
	if input != nil {
		if err := decoder.Decode(input); err != nil {
			return nil, err
		}
	}

	if s, ok := c.(Setter); ok {
		s.ApplyDefaults()
	}

	unused := md.Unused
	sort.Strings(unused)
	return unused, nil
}
