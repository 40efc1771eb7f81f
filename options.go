package typefetch

import "context"

// User is the capability object optionally attached to a request. Token
// returns an access token, or an empty string when none is available; the
// value is formatted as bearer credentials before being attached. ClientHeaders
// returns headers merged beneath the ones the builder assembles itself, so a
// built header wins on key collision.
type User interface {
	Token(ctx context.Context) string
	ClientHeaders() map[string]string
}

// SerializerFunc maps a payload into the value handed to the JSON encoder.
type SerializerFunc func(payload any) (any, error)

// DeserializerFunc maps the raw decoded JSON value into the result returned
// to the caller.
type DeserializerFunc func(raw any) (any, error)

// FetchOptions carries raw transport overrides merged into the descriptor
// after every other build step. Headers merge per key with the built headers
// (override wins); a non-empty Method or non-nil Body replaces the built one
// outright.
type FetchOptions struct {
	Method  string
	Headers map[string]string
	Body    []byte
}

// Options configures a single request. The zero value issues a bare request
// expecting status 200.
type Options struct {
	// Token is a pre-formatted Authorization header value, used verbatim. It
	// takes precedence over User.
	Token string

	// User supplies an access token and client headers when set.
	User User

	// ExpectedStatus is compared to the response status with exact equality.
	// Zero means 200.
	ExpectedStatus int

	// JSON is the payload serialized into a JSON body. Setting it also sets
	// the Content-Type and Accept headers to application/json.
	JSON any

	// RawJSON encodes the payload with encoding/json as-is, bypassing the
	// structured serializer.
	RawJSON bool

	// Serializer replaces the structured serializer for this request. Ignored
	// when RawJSON is set.
	Serializer SerializerFunc

	// Deserializer replaces the structured deserializer for this request.
	Deserializer DeserializerFunc

	// Form is serialized into a URL-encoded body. Accepts a
	// map[string]string, a url.Values, or a struct with `url` tags. When both
	// JSON and Form are set the form body wins; the JSON headers remain. Do
	// not rely on setting both.
	Form any

	// Fetch carries raw transport overrides applied last.
	Fetch *FetchOptions
}

// Descriptor is the fully assembled request handed to the transport. Headers
// is a plain map: key case is preserved and later assignments win. A nil Body
// means the request carries no body.
type Descriptor struct {
	Method  string
	Headers map[string]string
	Body    []byte
}
