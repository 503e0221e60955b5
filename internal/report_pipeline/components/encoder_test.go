package components

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEncrypter struct {
	fileName string
	err      error
}

func (f *fakeEncrypter) Encrypt(plaintext []byte, fileName string) ([]byte, error) {
	f.fileName = fileName
	if f.err != nil {
		return nil, f.err
	}
	return append([]byte("pgp:"), plaintext...), nil
}

func TestSecureEncoder_Encode(t *testing.T) {
	t.Run("encrypts with the clear file name", func(t *testing.T) {
		enc := &fakeEncrypter{}
		encoder := NewSecureEncoder(enc, newTestLogger())

		ciphertext, err := encoder.Encode([]byte("H|..."), "report.txt")
		require.NoError(t, err)
		assert.Equal(t, []byte("pgp:H|..."), ciphertext)
		assert.Equal(t, "report.txt", enc.fileName)
	})

	t.Run("surfaces encryption failures", func(t *testing.T) {
		enc := &fakeEncrypter{err: errors.New("no recipient key")}
		encoder := NewSecureEncoder(enc, newTestLogger())

		_, err := encoder.Encode([]byte("x"), "report.txt")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to encrypt report")
	})
}
