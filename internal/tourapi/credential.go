package tourapi

import (
	"net/url"
	"strings"
)

const (
	serverKeyEnv = "TOUR_API_KEY"
	publicKeyEnv = "NEXT_PUBLIC_TOUR_API_KEY"
	keyIssueURL  = "https://www.data.go.kr/data/15101578/openapi.do"
)

// Credential is the data.go.kr service key sent as serviceKey on every request.
type Credential string

// CredentialSource exposes the two configuration slots the key can live in.
// *config.Config satisfies it.
type CredentialSource interface {
	GetTourAPIKey() string
	GetPublicTourAPIKey() string
}

// ResolveCredential picks the server-only key, falling back to the public
// key. Both absent and blank-after-trim are reported as distinct
// *ConfigError values.
//
// data.go.kr issues each key twice, percent-encoded and decoded. An encoded
// key is decoded here so the request builder encodes it exactly once.
func ResolveCredential(src CredentialSource) (Credential, error) {
	key := src.GetTourAPIKey()
	if key == "" {
		key = src.GetPublicTourAPIKey()
	}

	if key == "" {
		return "", &ConfigError{Message: "tour API key is not configured; set " + serverKeyEnv +
			" (server side, preferred) or " + publicKeyEnv + " (public fallback). Keys are issued at " + keyIssueURL}
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return "", &ConfigError{Message: "tour API key is blank; check the value of " + serverKeyEnv +
			" or " + publicKeyEnv}
	}

	if strings.Contains(key, "%") {
		if decoded, err := url.QueryUnescape(key); err == nil {
			key = decoded
		}
	}

	return Credential(key), nil
}

// redact replaces the credential in s with asterisks, for log output.
func (c Credential) redact(s string) string {
	if c == "" {
		return s
	}
	s = strings.ReplaceAll(s, url.QueryEscape(string(c)), "***")
	return strings.ReplaceAll(s, string(c), "***")
}

// StaticCredentials is a CredentialSource backed by fixed values.
type StaticCredentials struct {
	ServerKey string
	PublicKey string
}

func (s StaticCredentials) GetTourAPIKey() string       { return s.ServerKey }
func (s StaticCredentials) GetPublicTourAPIKey() string { return s.PublicKey }
