package config

import (
	"encoding/base64"
	"strings"
)

// Credentials are stored reversibly encoded, not encrypted: the config file
// lives on the user's own machine and the encoding only keeps tokens out of
// casual `cat` output.
const secretPrefix = "enc:"

func EncodeSecret(plain string) string {
	plain = strings.TrimSpace(plain)
	if plain == "" {
		return ""
	}
	return secretPrefix + base64.StdEncoding.EncodeToString([]byte(plain))
}

// DecodeSecret reverses EncodeSecret. Values without the prefix pass through
// unchanged so plain tokens from environment variables keep working.
func DecodeSecret(stored string) string {
	stored = strings.TrimSpace(stored)
	if !strings.HasPrefix(stored, secretPrefix) {
		return stored
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(stored, secretPrefix))
	if err != nil {
		return ""
	}
	return string(raw)
}
