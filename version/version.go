package version

import "strings"

var buildVersion = "v0.1.0"

// String returns the semantic version of the library. Override via ldflags, e.g.:
// go build -ldflags "-X github.com/henry781/typefetch/version.buildVersion=v0.1.0".
func String() string {
	return strings.TrimSpace(buildVersion)
}

// UserAgent returns the default User-Agent value sent by the built-in transport.
func UserAgent() string {
	return "typefetch/" + String()
}
