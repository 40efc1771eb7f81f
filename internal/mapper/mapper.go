// Package mapper is the structured JSON object mapper used when callers do
// not supply their own converter functions. Serialization normalizes Go
// values into JSON-compatible shapes honoring `json` struct tags, and
// deserialization maps raw decoded JSON values into typed targets.
package mapper

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// Serialize converts a value into a JSON-compatible representation. Structs
// become string-keyed maps keyed by their `json` tags; values that already
// have a direct JSON form pass through unchanged. With unsafe set, values the
// mapper cannot normalize are passed through as-is and left to the JSON
// encoder; without it they are rejected up front.
func Serialize(v any, unsafe bool) (any, error) {
	if v == nil {
		return nil, nil
	}
	if _, ok := v.(json.Marshaler); ok {
		return v, nil
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Struct:
		return structToMap(rv.Interface())
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			item, err := Serialize(rv.Index(i).Interface(), unsafe)
			if err != nil {
				return nil, err
			}
			out[i] = item
		}
		return out, nil
	case reflect.Map, reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return rv.Interface(), nil
	default:
		if unsafe {
			return v, nil
		}
		return nil, fmt.Errorf("cannot serialize value of kind %s", rv.Kind())
	}
}

func structToMap(v any) (map[string]any, error) {
	var out map[string]any
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &out,
		TagName: "json",
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(v); err != nil {
		return nil, fmt.Errorf("serialize %T: %w", v, err)
	}
	return out, nil
}

// Deserialize maps a raw decoded JSON value into the typed target, which must
// be a non-nil pointer. RFC 3339 timestamps and duration strings are decoded
// into time.Time and time.Duration fields.
func Deserialize(raw any, target any) error {
	if target == nil {
		return errors.New("deserialize target must be non-nil")
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  target,
		TagName: "json",
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339),
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("deserialize: %w", err)
	}
	return nil
}
