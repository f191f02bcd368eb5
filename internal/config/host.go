package config

import (
	"regexp"
	"strings"

	"go.uber.org/zap/zapcore"
)

// DefaultHostPath is the mount path used when a host's path variable is undefined.
const DefaultHostPath = "/admin"

const redacted = "[redacted]"

// pathExtractor splits a base URL into scheme://authority and an optional
// path that runs up to the query or fragment. The authority stops at the
// first slash, so a port is never taken for a path.
var pathExtractor = regexp.MustCompile(`(?i)^(https?://[^/]+)(/?[^?#]+)?`)

// Host is the normalized address of one admin instance.
type Host struct {
	baseURL  string
	path     string
	password string
	fullURL  string
}

// NewHost normalizes a raw base URL and path. A path embedded in baseURL is
// kept in front of the explicit path. Pass DefaultHostPath when the caller has
// no explicit path; an empty path is honoured as "no path".
func NewHost(baseURL, password, path string) Host {
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	if m := pathExtractor.FindStringSubmatch(baseURL); m != nil && m[1] != "" && m[2] != "" {
		baseURL = m[1]
		path = trimTrailingSlash(m[2]) + path
	}

	path = trimTrailingSlash(path)

	return Host{
		baseURL:  baseURL,
		path:     path,
		password: password,
		fullURL:  baseURL + path,
	}
}

// BaseURL returns scheme and authority.
func (h Host) BaseURL() string { return h.baseURL }

// Path returns the normalized mount path, possibly empty.
func (h Host) Path() string { return h.path }

// Password returns the admin password.
func (h Host) Password() string { return h.password }

// FullURL returns BaseURL followed by Path.
func (h Host) FullURL() string { return h.fullURL }

// String returns the full URL; the password is never included.
func (h Host) String() string { return h.fullURL }

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (h Host) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("base_url", h.baseURL)
	enc.AddString("path", h.path)
	enc.AddString("full_url", h.fullURL)
	return nil
}

type hostYAML struct {
	BaseURL  string `yaml:"base_url"`
	Path     string `yaml:"path"`
	FullURL  string `yaml:"full_url"`
	Password string `yaml:"password"`
}

// MarshalYAML implements yaml.Marshaler with the password redacted.
func (h Host) MarshalYAML() (any, error) {
	out := hostYAML{
		BaseURL: h.baseURL,
		Path:    h.path,
		FullURL: h.fullURL,
	}
	if h.password != "" {
		out.Password = redacted
	}
	return out, nil
}

func trimTrailingSlash(s string) string {
	return strings.TrimSuffix(s, "/")
}
