// Package encryption wraps the PGP primitive the pipeline uses to protect
// rendered files before delivery. The pipeline supplies plaintext bytes and
// receives ciphertext bytes; key management stays here.
package encryption

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp"
)

// PGPEncoder encrypts payloads for the counterparty's public key.
type PGPEncoder struct {
	recipients openpgp.EntityList
	logger     *slog.Logger
}

// NewPGPEncoderFromFile loads an armored public key ring from disk.
func NewPGPEncoderFromFile(logger *slog.Logger, publicKeyPath string) (*PGPEncoder, error) {
	keyBytes, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read public key %s: %w", publicKeyPath, err)
	}

	recipients, err := openpgp.ReadArmoredKeyRing(bytes.NewReader(keyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key ring %s: %w", publicKeyPath, err)
	}
	if len(recipients) == 0 {
		return nil, fmt.Errorf("public key ring %s contains no keys", publicKeyPath)
	}

	logger.Info("Loaded encryption key ring", "path", publicKeyPath, "keys", len(recipients))

	return &PGPEncoder{
		recipients: recipients,
		logger:     logger,
	}, nil
}

// NewPGPEncoder builds an encoder from an already parsed key ring.
func NewPGPEncoder(logger *slog.Logger, recipients openpgp.EntityList) *PGPEncoder {
	return &PGPEncoder{
		recipients: recipients,
		logger:     logger,
	}
}

// Encrypt produces ciphertext for the configured recipients. The file name
// is embedded as the literal-packet hint so the counterparty's tooling sees
// the original name after decryption.
func (e *PGPEncoder) Encrypt(plaintext []byte, fileName string) ([]byte, error) {
	var buf bytes.Buffer

	hints := &openpgp.FileHints{FileName: fileName}
	w, err := openpgp.Encrypt(&buf, e.recipients, nil, hints, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start encryption for %s: %w", fileName, err)
	}

	if _, err := w.Write(plaintext); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to encrypt %s: %w", fileName, err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize encryption for %s: %w", fileName, err)
	}

	return buf.Bytes(), nil
}
