package encryption

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestPGPEncoder_EncryptRoundTrip(t *testing.T) {
	entity, err := openpgp.NewEntity("Settlement Test", "", "settlement@example.com", nil)
	require.NoError(t, err)

	encoder := NewPGPEncoder(newTestLogger(), openpgp.EntityList{entity})

	plaintext := []byte("H|STLMNT|1.1|ACH|ACMEPAY|ACH-STD-001|20260825093000\nT|0|0.00\n")
	fileName := "ACMEPAY_ACH-STD-001_20260825093000.txt"

	ciphertext, err := encoder.Encrypt(plaintext, fileName)
	require.NoError(t, err)
	require.NotEmpty(t, ciphertext)
	assert.NotEqual(t, plaintext, ciphertext)

	// The holder of the private key must be able to recover the plaintext
	// and the embedded file name hint.
	md, err := openpgp.ReadMessage(
		bytes.NewReader(ciphertext),
		openpgp.EntityList{entity},
		nil,
		nil,
	)
	require.NoError(t, err)

	decrypted, err := io.ReadAll(md.UnverifiedBody)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
	assert.Equal(t, fileName, md.LiteralData.FileName)
}

func TestNewPGPEncoderFromFile_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := NewPGPEncoderFromFile(newTestLogger(), "does/not/exist.asc")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read public key")
	})

	t.Run("garbage key material", func(t *testing.T) {
		path := t.TempDir() + "/bad.asc"
		require.NoError(t, os.WriteFile(path, []byte("not a key"), 0600))

		_, err := NewPGPEncoderFromFile(newTestLogger(), path)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse public key ring")
	})
}
