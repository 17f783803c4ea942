package configs

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"

	"github.com/gorilla/securecookie"
)

type SessionKeys struct {
	AuthKey []byte
	EncKey  []byte
}

func (c Config) SessionKeys() (*SessionKeys, error) {
	if c.AppAuthKey == "" {
		return nil, fmt.Errorf("APP_AUTH_KEY environment variable not set")
	}
	if c.AppEncKey == "" {
		return nil, fmt.Errorf("APP_ENC_KEY environment variable not set")
	}

	authKey, err := base64.URLEncoding.DecodeString(c.AppAuthKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode APP_AUTH_KEY from Base64: %w", err)
	}
	encKey, err := base64.URLEncoding.DecodeString(c.AppEncKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode APP_ENC_KEY from Base64: %w", err)
	}

	if len(authKey) < 32 {
		return nil, fmt.Errorf("APP_AUTH_KEY must decode to at least 32 bytes, got %d", len(authKey))
	}
	if len(encKey) != 16 && len(encKey) != 24 && len(encKey) != 32 {
		return nil, fmt.Errorf("APP_ENC_KEY has invalid length %d after decoding. Must be 16, 24, or 32 bytes for AES encryption", len(encKey))
	}
	return &SessionKeys{AuthKey: authKey, EncKey: encKey}, nil
}

// GeneratedKeys are fresh secrets for a new deployment.
type GeneratedKeys struct {
	AuthKey        string
	EncKey         string
	JWTSecret      string
	ServiceRoleKey string
}

func GenerateKeys() (*GeneratedKeys, error) {
	raw := map[string][]byte{
		"auth":    securecookie.GenerateRandomKey(64),
		"enc":     securecookie.GenerateRandomKey(32),
		"jwt":     securecookie.GenerateRandomKey(48),
		"service": securecookie.GenerateRandomKey(32),
	}
	for name, key := range raw {
		if key == nil {
			return nil, fmt.Errorf("could not generate %s key", name)
		}
	}
	return &GeneratedKeys{
		AuthKey:        base64.URLEncoding.EncodeToString(raw["auth"]),
		EncKey:         base64.URLEncoding.EncodeToString(raw["enc"]),
		JWTSecret:      base64.RawURLEncoding.EncodeToString(raw["jwt"]),
		ServiceRoleKey: base64.RawURLEncoding.EncodeToString(raw["service"]),
	}, nil
}

func (k GeneratedKeys) WriteEnv(w io.Writer) error {
	_, err := fmt.Fprintf(w, "APP_AUTH_KEY=%s\nAPP_ENC_KEY=%s\nJWT_SECRET=%s\nSERVICE_ROLE_KEY=%s\n",
		k.AuthKey, k.EncKey, k.JWTSecret, k.ServiceRoleKey)
	return err
}

// WriteEnvFile writes the keys to path, refusing to overwrite an existing file.
func (k GeneratedKeys) WriteEnvFile(path string) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer file.Close()

	if err := k.WriteEnv(file); err != nil {
		return fmt.Errorf("failed to write keys to file %s: %w", path, err)
	}
	return nil
}
