package typefetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/google/go-querystring/query"
	"go.uber.org/zap"

	"github.com/henry781/typefetch/internal/authheader"
	"github.com/henry781/typefetch/internal/mapper"
)

const (
	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"
)

// build assembles the request descriptor for one call. Step order matters:
// later steps overwrite headers set by earlier ones.
func (c *Client) build(ctx context.Context, method string, opts Options) (Descriptor, error) {
	headers := map[string]string{
		"pragma":        "no-cache",
		"cache-control": "no-cache",
	}

	if id := c.requestID(ctx); id != "" {
		headers["request-id"] = id
	}

	switch {
	case opts.Token != "":
		headers["Authorization"] = opts.Token
		c.log.Debug("authorization taken from token option")
	case opts.User != nil:
		if token := opts.User.Token(ctx); token != "" {
			headers["Authorization"] = authheader.Bearer(token)
			c.log.Debug("authorization taken from user token")
		}
	}

	if opts.User != nil {
		if clientHeaders := opts.User.ClientHeaders(); len(clientHeaders) > 0 {
			merged := make(map[string]string, len(clientHeaders)+len(headers))
			for key, value := range clientHeaders {
				merged[key] = value
			}
			// built headers win on collision
			for key, value := range headers {
				merged[key] = value
			}
			headers = merged
		}
	}

	var body []byte
	if opts.JSON != nil {
		headers["Content-Type"] = contentTypeJSON
		headers["Accept"] = contentTypeJSON

		encoded, err := encodeJSONBody(opts)
		if err != nil {
			return Descriptor{}, err
		}
		body = encoded
		c.log.Debug("json body encoded", zap.Int("bytes", len(body)))
	}

	if opts.Form != nil {
		encoded, err := encodeFormBody(opts.Form)
		if err != nil {
			return Descriptor{}, err
		}
		// form wins over a json body; the json headers are left alone
		body = encoded
		if _, ok := headers["Content-Type"]; !ok {
			headers["Content-Type"] = contentTypeForm
		}
		c.log.Debug("form body encoded", zap.Int("bytes", len(body)))
	}

	desc := Descriptor{
		Method:  method,
		Headers: headers,
		Body:    body,
	}

	if opts.Fetch != nil {
		applyFetchOptions(&desc, opts.Fetch)
	}

	return desc, nil
}

// encodeJSONBody applies the three mutually exclusive serialization rules:
// RawJSON bypasses the structured serializer, a custom Serializer replaces
// it, and otherwise the payload goes through the structured serializer with
// relaxed validation.
func encodeJSONBody(opts Options) ([]byte, error) {
	payload := opts.JSON

	switch {
	case opts.RawJSON:
	case opts.Serializer != nil:
		mapped, err := opts.Serializer(payload)
		if err != nil {
			return nil, fmt.Errorf("serialize payload: %w", err)
		}
		payload = mapped
	default:
		mapped, err := mapper.Serialize(payload, true)
		if err != nil {
			return nil, fmt.Errorf("serialize payload: %w", err)
		}
		payload = mapped
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return encoded, nil
}

func encodeFormBody(form any) ([]byte, error) {
	switch f := form.(type) {
	case url.Values:
		return []byte(f.Encode()), nil
	case map[string]string:
		values := url.Values{}
		for key, value := range f {
			values.Set(key, value)
		}
		return []byte(values.Encode()), nil
	default:
		values, err := query.Values(form)
		if err != nil {
			return nil, fmt.Errorf("encode form: %w", err)
		}
		return []byte(values.Encode()), nil
	}
}

func applyFetchOptions(desc *Descriptor, fetch *FetchOptions) {
	for key, value := range fetch.Headers {
		desc.Headers[key] = value
	}
	if fetch.Method != "" {
		desc.Method = fetch.Method
	}
	if fetch.Body != nil {
		desc.Body = fetch.Body
	}
}
