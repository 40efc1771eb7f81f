// Package authheader formats Authorization header values following the HTTP
// authentication credentials grammar (RFC 7235): a scheme followed by either
// a token68 value or a list of auth-params.
package authheader

import (
	"encoding/base64"
	"fmt"
	"sort"
	"strings"
)

// Credentials describes one Authorization header value. Token takes the
// token68 form; Params takes the auth-param form. Token wins when both are
// set, matching the grammar's mutual exclusivity.
type Credentials struct {
	Scheme string
	Token  string
	Params map[string]string
}

// Format renders the credentials as a header value.
func Format(c Credentials) string {
	scheme := strings.TrimSpace(c.Scheme)
	if c.Token != "" {
		return scheme + " " + c.Token
	}
	if len(c.Params) == 0 {
		return scheme
	}

	keys := make([]string, 0, len(c.Params))
	for key := range c.Params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	params := make([]string, 0, len(keys))
	for _, key := range keys {
		params = append(params, fmt.Sprintf("%s=%q", key, c.Params[key]))
	}
	return scheme + " " + strings.Join(params, ", ")
}

// Bearer formats a bearer token credentials value (RFC 6750).
func Bearer(token string) string {
	return Format(Credentials{Scheme: "Bearer", Token: token})
}

// Basic formats a basic credentials value (RFC 7617).
func Basic(user, password string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(user + ":" + password))
	return Format(Credentials{Scheme: "Basic", Token: encoded})
}
