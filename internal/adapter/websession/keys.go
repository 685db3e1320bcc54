// Package websession keeps per-browser state in gorilla sessions: the token
// session of the signed-in user and a UI session holding toasts and the
// browsing-context ID.
package websession

import (
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

// DeriveKeys derives a 64-byte cookie hash key and a 32-byte AES block key
// from secret with HKDF-SHA256. The purpose string separates key sets used
// for different cookies.
func DeriveKeys(secret, purpose string) (hashKey, blockKey []byte, err error) {
	if secret == "" {
		return nil, nil, errors.New("websession: empty secret")
	}
	h := hkdf.New(sha256.New, []byte(secret), nil, []byte(purpose+"-hash"))
	hashKey = make([]byte, 64)
	if _, err := io.ReadFull(h, hashKey); err != nil {
		return nil, nil, err
	}
	b := hkdf.New(sha256.New, []byte(secret), nil, []byte(purpose+"-block"))
	blockKey = make([]byte, 32)
	if _, err := io.ReadFull(b, blockKey); err != nil {
		return nil, nil, err
	}
	return hashKey, blockKey, nil
}
