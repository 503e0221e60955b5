package components

import (
	"fmt"
	"log/slog"

	"github.com/settlement-reporting/internal/report_pipeline/service"
)

// Encrypter is the slice of the PGP client the encoder needs.
type Encrypter interface {
	Encrypt(plaintext []byte, fileName string) ([]byte, error)
}

// SecureEncoderImpl wraps report bytes in an encrypted envelope before
// transmission.
type SecureEncoderImpl struct {
	encrypter Encrypter
	logger    *slog.Logger
}

// NewSecureEncoder creates an encoder backed by the given encrypter.
func NewSecureEncoder(encrypter Encrypter, logger *slog.Logger) service.SecureEncoder {
	return &SecureEncoderImpl{encrypter: encrypter, logger: logger}
}

// Encode encrypts the rendered report. The clear file name travels inside
// the envelope so the counterparty recovers it on decryption.
func (e *SecureEncoderImpl) Encode(plaintext []byte, fileName string) ([]byte, error) {
	ciphertext, err := e.encrypter.Encrypt(plaintext, fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt report %s: %w", fileName, err)
	}

	e.logger.Debug("Encrypted report payload", "file_name", fileName, "bytes", len(ciphertext))
	return ciphertext, nil
}
