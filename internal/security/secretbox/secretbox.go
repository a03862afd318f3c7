// Package secretbox cifra secretos de configuración (DSNs y passwords por
// tenant) con NaCl secretbox y una clave maestra tomada del entorno.
package secretbox

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	masterKeyEnvVar   = "TENANTD_MASTER_KEY"
	nonceSize         = 24 // NaCl secretbox nonce (192 bits)
	requiredKeyLength = 32
	sep               = "|" // base64(nonce)|base64(box)
)

var (
	masterKey     *[requiredKeyLength]byte
	masterKeyOnce sync.Once
	loadErr       error
	mu            sync.RWMutex
)

// ensureLoaded carga la clave maestra desde TENANTD_MASTER_KEY (base64) una sola vez.
func ensureLoaded() error {
	masterKeyOnce.Do(func() {
		kb64 := strings.TrimSpace(os.Getenv(masterKeyEnvVar))
		if kb64 == "" {
			loadErr = fmt.Errorf("%s no seteada; genere una clave con: openssl rand -base64 32", masterKeyEnvVar)
			return
		}
		k, err := base64.StdEncoding.DecodeString(kb64)
		if err != nil {
			loadErr = fmt.Errorf("decode %s: %w", masterKeyEnvVar, err)
			return
		}
		if len(k) != requiredKeyLength {
			loadErr = fmt.Errorf("%s debe decodificar a %d bytes, obtuvo %d", masterKeyEnvVar, requiredKeyLength, len(k))
			return
		}
		var key [requiredKeyLength]byte
		copy(key[:], k)
		mu.Lock()
		masterKey = &key
		mu.Unlock()
	})
	return loadErr
}

// Ready expone si la clave está cargada (útil para healthchecks/config print).
func Ready() bool {
	mu.RLock()
	defer mu.RUnlock()
	return masterKey != nil
}

// Encrypt cifra plainText y devuelve base64(nonce)|base64(box).
func Encrypt(plainText string) (string, error) {
	if err := ensureLoaded(); err != nil {
		return "", err
	}

	mu.RLock()
	key := masterKey
	mu.RUnlock()

	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("nonce random: %w", err)
	}

	box := secretbox.Seal(nil, []byte(plainText), &nonce, key)
	return base64.StdEncoding.EncodeToString(nonce[:]) + sep + base64.StdEncoding.EncodeToString(box), nil
}

// Decrypt recibe base64(nonce)|base64(box) y devuelve el texto plano.
func Decrypt(cipherText string) (string, error) {
	if err := ensureLoaded(); err != nil {
		return "", err
	}

	parts := strings.Split(cipherText, sep)
	if len(parts) != 2 {
		return "", errors.New("formato inválido: esperado base64(nonce)|base64(box)")
	}
	rawNonce, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return "", fmt.Errorf("decode nonce: %w", err)
	}
	box, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("decode box: %w", err)
	}
	if len(rawNonce) != nonceSize {
		return "", fmt.Errorf("nonce inválido: esperado %d bytes, obtuvo %d", nonceSize, len(rawNonce))
	}

	mu.RLock()
	key := masterKey
	mu.RUnlock()

	var nonce [nonceSize]byte
	copy(nonce[:], rawNonce)

	pt, ok := secretbox.Open(nil, box, &nonce, key)
	if !ok {
		return "", errors.New("secretbox: auth/decrypt falló")
	}
	return string(pt), nil
}

// --- Helpers para tests ---

// UnsafeResetForTests borra estado interno. Usar sólo en tests.
func UnsafeResetForTests() {
	mu.Lock()
	masterKey = nil
	mu.Unlock()
	masterKeyOnce = sync.Once{}
	loadErr = nil
}
