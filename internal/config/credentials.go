package config

import (
	"errors"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// PlaceholderAPIKey is the value shipped in sample secrets files; it counts as unset.
const PlaceholderAPIKey = "YOUR_GROQ_API_KEY_HERE"

// ResolveAPIKey looks the credential up in the secrets file first and the
// environment second. A non-blank secrets value wins even when it is the
// placeholder, which leaves chat disabled. It returns "" when no usable
// value is found.
func ResolveAPIKey(secretsPath, name string) string {
	if secretsPath != "" {
		vals, err := godotenv.Read(secretsPath)
		switch {
		case err == nil:
			if v := strings.TrimSpace(vals[name]); v != "" {
				return usable(v)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			log.Printf("⚠️ secrets file %s unreadable: %v", secretsPath, err)
		}
	}
	return usable(os.Getenv(name))
}

func usable(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || v == PlaceholderAPIKey {
		return ""
	}
	return v
}
