// Package secrets resolves the credential bundle used to authenticate
// against the mobile API. Bundles can be supplied directly, via the
// GP_AUTH_DATA environment variable, or stored in the OS keyring.
package secrets

import (
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// EnvAuthData is the environment variable holding the bundle.
	EnvAuthData = "GP_AUTH_DATA"

	keyringService = "gpmc"
	keyringUser    = "auth_data"
)

// Resolve returns the credential bundle, preferring an explicitly provided
// value, then the environment, then the OS keyring.
func Resolve(explicit string) (string, error) {
	if s := strings.TrimSpace(explicit); s != "" {
		return s, nil
	}
	if s := strings.TrimSpace(os.Getenv(EnvAuthData)); s != "" {
		return s, nil
	}
	s, err := keyring.Get(keyringService, keyringUser)
	if err == nil && strings.TrimSpace(s) != "" {
		return s, nil
	}
	return "", fmt.Errorf("no auth data: pass --auth-data, set %s, or store it with `gpmc auth set`", EnvAuthData)
}

// Store saves the bundle in the OS keyring.
func Store(authData string) error {
	if strings.TrimSpace(authData) == "" {
		return fmt.Errorf("auth data is empty")
	}
	if err := keyring.Set(keyringService, keyringUser, authData); err != nil {
		return fmt.Errorf("store auth data in keyring: %w", err)
	}
	return nil
}

// Clear removes the bundle from the OS keyring.
func Clear() error {
	err := keyring.Delete(keyringService, keyringUser)
	if err != nil && err != keyring.ErrNotFound {
		return fmt.Errorf("clear auth data from keyring: %w", err)
	}
	return nil
}
