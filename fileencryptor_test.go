package quantumsafe

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestEncryptor(t *testing.T, mode Mode) *FileEncryptor {
	t.Helper()
	store := NewSessionStore()
	t.Cleanup(store.Close)
	session, err := store.Create(mode)
	require.NoError(t, err)
	return NewFileEncryptor(session, WithLogger(quietLogger()))
}

func writeTestFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestFileEncryptor_RoundTrip(t *testing.T) {
	for _, mode := range []Mode{ModeKEM, ModeClassical, ModeHybrid} {
		t.Run(mode.String(), func(t *testing.T) {
			fe := newTestEncryptor(t, mode)
			dir := t.TempDir()

			content := []byte("confidential document contents")
			input := writeTestFile(t, dir, "document.txt", content)

			encrypted, err := fe.EncryptFile(input, "")
			require.NoError(t, err)
			assert.Equal(t, input+EncryptedExt, encrypted)

			// Ciphertext on disk must not contain the plaintext.
			raw, err := os.ReadFile(encrypted)
			require.NoError(t, err)
			assert.NotContains(t, string(raw), string(content))

			output := filepath.Join(dir, "restored.txt")
			got, err := fe.DecryptFile(encrypted, output)
			require.NoError(t, err)
			assert.Equal(t, output, got)

			restored, err := os.ReadFile(output)
			require.NoError(t, err)
			assert.Equal(t, content, restored)
		})
	}
}

func TestFileEncryptor_DefaultDecryptName(t *testing.T) {
	fe := newTestEncryptor(t, ModeKEM)
	dir := t.TempDir()

	input := writeTestFile(t, dir, "report.pdf", []byte("pdf bytes"))
	encrypted, err := fe.EncryptFile(input, filepath.Join(dir, "out", "report.qsenc"))
	require.NoError(t, err)

	require.NoError(t, os.Remove(input))

	// With no explicit output, the original name from the container
	// metadata is restored next to the container.
	output, err := fe.DecryptFile(encrypted, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out", "report.pdf"), output)

	restored, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf bytes"), restored)
}

func TestFileEncryptor_EncryptFile_Missing(t *testing.T) {
	fe := newTestEncryptor(t, ModeKEM)
	_, err := fe.EncryptFile(filepath.Join(t.TempDir(), "absent.txt"), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileEncryptor_DecryptFile_Tampered(t *testing.T) {
	fe := newTestEncryptor(t, ModeKEM)
	dir := t.TempDir()

	input := writeTestFile(t, dir, "secret.txt", []byte("integrity protected"))
	encrypted, err := fe.EncryptFile(input, "")
	require.NoError(t, err)

	raw, err := os.ReadFile(encrypted)
	require.NoError(t, err)

	// Flip one ciphertext byte inside the container JSON.
	idx := len(raw) / 2
	tampered := append([]byte(nil), raw...)
	for ; idx < len(tampered); idx++ {
		if tampered[idx] >= 'a' && tampered[idx] < 'z' {
			tampered[idx]++
			break
		}
	}
	require.NoError(t, os.WriteFile(encrypted, tampered, 0o644))

	output := filepath.Join(dir, "should-not-exist.txt")
	_, err = fe.DecryptFile(encrypted, output)
	require.Error(t, err)

	// No partial plaintext may reach disk.
	_, statErr := os.Stat(output)
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestFileEncryptor_BatchIsolation(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("chmod-based unreadable file not portable to windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("running as root, permission bits are not enforced")
	}

	fe := newTestEncryptor(t, ModeHybrid)
	inputDir := t.TempDir()
	outputDir := t.TempDir()

	writeTestFile(t, inputDir, "file1.txt", []byte("first"))
	unreadable := writeTestFile(t, inputDir, "file2.txt", []byte("second"))
	writeTestFile(t, inputDir, "file3.txt", []byte("third"))
	require.NoError(t, os.Chmod(unreadable, 0o000))

	result, err := fe.EncryptDir(inputDir, outputDir)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Failed)

	for _, fr := range result.Files {
		if fr.Input == unreadable {
			assert.Error(t, fr.Err)
			assert.Empty(t, fr.Output)
		} else {
			assert.NoError(t, fr.Err)
			assert.FileExists(t, fr.Output)
		}
	}
}

func TestFileEncryptor_DirRoundTrip(t *testing.T) {
	fe := newTestEncryptor(t, ModeKEM)
	inputDir := t.TempDir()
	encryptedDir := t.TempDir()
	decryptedDir := t.TempDir()

	files := map[string][]byte{
		"document.txt":        []byte("confidential document"),
		"data.json":           []byte(`{"secret":"value"}`),
		"nested/report.md":    []byte("# Classified"),
		"nested/deep/key.pem": []byte("----"),
	}
	for name, content := range files {
		writeTestFile(t, inputDir, name, content)
	}

	encResult, err := fe.EncryptDir(inputDir, encryptedDir)
	require.NoError(t, err)
	assert.Equal(t, len(files), encResult.Succeeded)
	assert.Zero(t, encResult.Failed)

	decResult, err := fe.DecryptDir(encryptedDir, decryptedDir)
	require.NoError(t, err)
	assert.Equal(t, len(files), decResult.Succeeded)
	assert.Zero(t, decResult.Failed)

	for name, content := range files {
		restored, err := os.ReadFile(filepath.Join(decryptedDir, name))
		require.NoError(t, err, name)
		assert.Equal(t, content, restored, name)
	}
}

func TestFileEncryptor_EncryptDir_MissingRoot(t *testing.T) {
	fe := newTestEncryptor(t, ModeKEM)
	_, err := fe.EncryptDir(filepath.Join(t.TempDir(), "absent"), "")
	require.Error(t, err)
}
