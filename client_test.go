package typefetch_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	typefetch "github.com/henry781/typefetch"
)

type failingTransport struct {
	err error
}

func (t failingTransport) Send(context.Context, string, typefetch.Descriptor) (*http.Response, error) {
	return nil, t.err
}

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *typefetch.Client) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return srv, typefetch.NewClient(typefetch.Config{HTTPClient: srv.Client()})
}

func TestJSONRequestRoundTrip(t *testing.T) {
	srv, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.Equal(t, "application/json", r.Header.Get("Accept"))
		require.Equal(t, "no-cache", r.Header.Get("Pragma"))
		require.Equal(t, "no-cache", r.Header.Get("Cache-Control"))
		require.NotEmpty(t, r.Header.Get("Request-Id"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.JSONEq(t, `{"a":1}`, string(body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	})

	result, err := typefetch.PostJSON[map[string]any](context.Background(), client, srv.URL, typefetch.Options{
		JSON: map[string]int{"a": 1},
	})
	require.NoError(t, err)
	require.Equal(t, map[string]any{"a": float64(1)}, result)
}

func TestJSONRequestTypedResult(t *testing.T) {
	type item struct {
		ID   string `json:"id"`
		Size int    `json:"size"`
	}

	srv, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"item-1","size":3}`))
	})

	result, err := typefetch.GetJSON[item](context.Background(), client, srv.URL, typefetch.Options{})
	require.NoError(t, err)
	require.Equal(t, item{ID: "item-1", Size: 3}, result)
}

func TestJSONRequestCustomDeserializer(t *testing.T) {
	srv, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name":"ann"}`))
	})

	result, err := typefetch.GetJSON[string](context.Background(), client, srv.URL, typefetch.Options{
		Deserializer: func(raw any) (any, error) {
			return raw.(map[string]any)["name"], nil
		},
	})
	require.NoError(t, err)
	require.Equal(t, "ann", result)
}

func TestStatusMismatchCarriesRawTextBody(t *testing.T) {
	srv, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("not found"))
	})

	_, err := typefetch.PostJSON[map[string]any](context.Background(), client, srv.URL, typefetch.Options{
		JSON: map[string]int{"a": 1},
	})
	require.Error(t, err)

	var clientErr *typefetch.ClientError
	require.ErrorAs(t, err, &clientErr)
	require.Contains(t, clientErr.Error(), "got <404>")
	require.Equal(t, http.StatusNotFound, clientErr.ResponseStatus)
	require.Equal(t, "not found", clientErr.ResponseBody)
}

func TestStatusMismatchParsesJSONBody(t *testing.T) {
	srv, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"INVALID","message":"bad input"}`))
	})

	_, err := client.Get(context.Background(), srv.URL, typefetch.Options{})

	var clientErr *typefetch.ClientError
	require.ErrorAs(t, err, &clientErr)
	require.Equal(t, http.StatusBadRequest, clientErr.ResponseStatus)
	require.Equal(t, map[string]any{"code": "INVALID", "message": "bad input"}, clientErr.ResponseBody)
}

func TestStatusMismatchSkipsBodyDecoding(t *testing.T) {
	srv, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("{malformed"))
	})

	_, err := typefetch.GetJSON[map[string]any](context.Background(), client, srv.URL, typefetch.Options{})

	var clientErr *typefetch.ClientError
	require.ErrorAs(t, err, &clientErr)
	require.Equal(t, "{malformed", clientErr.ResponseBody)
}

func TestExpectedStatusOverride(t *testing.T) {
	srv, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"new"}`))
	})

	result, err := typefetch.PostJSON[map[string]any](context.Background(), client, srv.URL, typefetch.Options{
		JSON:           map[string]string{"name": "thing"},
		ExpectedStatus: http.StatusCreated,
	})
	require.NoError(t, err)
	require.Equal(t, "new", result["id"])
}

func TestTransportFailure(t *testing.T) {
	cause := errors.New("network down")
	client := typefetch.NewClient(typefetch.Config{Transport: failingTransport{err: cause}})

	_, err := client.Get(context.Background(), "http://example.invalid", typefetch.Options{})
	require.Error(t, err)
	require.Equal(t, "fail to execute request : network down", err.Error())
	require.ErrorIs(t, err, cause)

	var clientErr *typefetch.ClientError
	require.ErrorAs(t, err, &clientErr)
	require.Zero(t, clientErr.ResponseStatus)
}

func TestResponseModeReturnsRawResponse(t *testing.T) {
	srv, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Custom", "value")
		_, _ = w.Write([]byte("raw body"))
	})

	resp, err := client.Get(context.Background(), srv.URL, typefetch.Options{})
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "value", resp.Header.Get("X-Custom"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "raw body", string(body))
}

func TestRawJSONBodyOnTheWire(t *testing.T) {
	srv, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.Equal(t, `{"x":1}`, string(body))
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := typefetch.PostJSON[map[string]any](context.Background(), client, srv.URL, typefetch.Options{
		JSON:    map[string]int{"x": 1},
		RawJSON: true,
	})
	require.NoError(t, err)
}

func TestFormRequestOnTheWire(t *testing.T) {
	srv, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "b", r.PostForm.Get("a"))
		_, _ = w.Write([]byte(`{}`))
	})

	resp, err := client.Post(context.Background(), srv.URL, typefetch.Options{
		Form: map[string]string{"a": "b"},
	})
	require.NoError(t, err)
	resp.Body.Close()
}

func TestAuthorizationHeaderOnTheWire(t *testing.T) {
	srv, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		require.Equal(t, "acme", r.Header.Get("X-Tenant"))
		_, _ = w.Write([]byte(`{}`))
	})

	resp, err := client.Get(context.Background(), srv.URL, typefetch.Options{
		User: staticTestUser{token: "user-token", headers: map[string]string{"x-tenant": "acme"}},
	})
	require.NoError(t, err)
	resp.Body.Close()
}

func TestRequestIDFromContext(t *testing.T) {
	srv, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "req-ctx", r.Header.Get("Request-Id"))
		_, _ = w.Write([]byte(`{}`))
	})

	ctx := typefetch.WithRequestID(context.Background(), "req-ctx")
	resp, err := client.Get(ctx, srv.URL, typefetch.Options{})
	require.NoError(t, err)
	resp.Body.Close()
}

func TestDecodeFailureIsNotClientError(t *testing.T) {
	srv, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{malformed"))
	})

	_, err := typefetch.GetJSON[map[string]any](context.Background(), client, srv.URL, typefetch.Options{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "decode response")

	var clientErr *typefetch.ClientError
	require.False(t, errors.As(err, &clientErr))
}

func TestDeserializationFailuresAreLogged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"size":"not-a-number"}`))
	}))
	t.Cleanup(srv.Close)

	core, logs := observer.New(zapcore.DebugLevel)
	client := typefetch.NewClient(typefetch.Config{
		HTTPClient: srv.Client(),
		Logger:     zap.New(core),
	})

	type item struct {
		Size int `json:"size"`
	}
	_, err := typefetch.GetJSON[item](context.Background(), client, srv.URL, typefetch.Options{})
	require.Error(t, err)
	require.Equal(t, 1, logs.FilterMessage("structured deserialization failed").Len())

	_, err = typefetch.GetJSON[string](context.Background(), client, srv.URL, typefetch.Options{
		Deserializer: func(any) (any, error) { return nil, errors.New("mapping broke") },
	})
	require.Error(t, err)
	require.Equal(t, 1, logs.FilterMessage("custom deserializer failed").Len())
}

func TestClientCredentialsUserEndToEnd(t *testing.T) {
	var tokenCalls int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			tokenCalls++
			require.Equal(t, http.MethodPost, r.Method)
			require.NoError(t, r.ParseForm())
			require.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
			require.NoError(t, json.NewEncoder(w).Encode(map[string]any{
				"access_token": "minted-token",
				"token_type":   "Bearer",
				"expires_in":   3600,
			}))
		case "/items":
			require.Equal(t, "Bearer minted-token", r.Header.Get("Authorization"))
			require.Equal(t, "sdk", r.Header.Get("X-Client"))
			_, _ = w.Write([]byte(`{"ok":true}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	user, err := typefetch.NewClientCredentialsUser(typefetch.ClientCredentialsConfig{
		TokenURL:     srv.URL + "/token",
		ClientID:     "client",
		ClientSecret: "secret",
		Headers:      map[string]string{"x-client": "sdk"},
		HTTPClient:   srv.Client(),
	})
	require.NoError(t, err)

	client := typefetch.NewClient(typefetch.Config{HTTPClient: srv.Client()})

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		result, err := typefetch.GetJSON[map[string]any](ctx, client, srv.URL+"/items", typefetch.Options{User: user})
		require.NoError(t, err)
		require.Equal(t, true, result["ok"])
	}
	require.Equal(t, 1, tokenCalls)
}

type staticTestUser struct {
	token   string
	headers map[string]string
}

func (u staticTestUser) Token(context.Context) string     { return u.token }
func (u staticTestUser) ClientHeaders() map[string]string { return u.headers }
