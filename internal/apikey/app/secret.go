package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aussiebroadwan/apikey/pkg/cryptox"
	"github.com/aussiebroadwan/apikey/pkg/jwtx"
)

// LoadOrGenerateAdminSecret returns the admin token signing secret stored at
// path, writing a fresh 256-bit one (mode 0600) when the file is missing.
func LoadOrGenerateAdminSecret(path string) ([]byte, error) {
	path = filepath.Clean(path)

	raw, err := os.ReadFile(path)
	if err == nil {
		return []byte(strings.TrimSpace(string(raw))), nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read admin secret: %w", err)
	}

	secret, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, []byte(secret), 0600); err != nil {
		return nil, fmt.Errorf("write admin secret: %w", err)
	}
	return []byte(secret), nil
}

// AdminSigner loads the admin secret for cfg and returns the HS256 signer
// that both mints and checks admin tokens.
func AdminSigner(cfg Config) (*jwtx.HS256, error) {
	secret, err := LoadOrGenerateAdminSecret(cfg.AdminSecretFile)
	if err != nil {
		return nil, err
	}
	return jwtx.NewHS256(secret, cfg.Issuer)
}
