package quantumsafe

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/quantumsafe/envelope-go/internal/crypto"
)

// EncryptedExt is the suffix appended to encrypted file names.
const EncryptedExt = ".qsenc"

// FileEncryptor encrypts and decrypts files through a session, writing
// the versioned container format to disk.
type FileEncryptor struct {
	session *Session
	log     logrus.FieldLogger
}

// NewFileEncryptor creates a file encryptor bound to a session.
func NewFileEncryptor(session *Session, opts ...FileOption) *FileEncryptor {
	cfg := fileConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logrus.StandardLogger()
	}
	return &FileEncryptor{session: session, log: cfg.logger}
}

// EncryptFile reads inputPath, encrypts it under the session's keys, and
// writes the serialized container to outputPath. An empty outputPath
// defaults to inputPath + ".qsenc". The original name, size, and
// timestamp are recorded in the container metadata.
func (f *FileEncryptor) EncryptFile(inputPath, outputPath string) (string, error) {
	if outputPath == "" {
		outputPath = inputPath + EncryptedExt
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return "", fmt.Errorf("read input file: %w", err)
	}

	env, err := f.session.Encrypt(data)
	if err != nil {
		return "", err
	}
	env.Metadata = crypto.Metadata{
		OriginalName: filepath.Base(inputPath),
		OriginalSize: int64(len(data)),
		CreatedAt:    time.Now().UTC(),
	}

	container, err := crypto.MarshalContainer(env)
	if err != nil {
		return "", err
	}

	if err := writeFileAtomic(outputPath, container, 0o644); err != nil {
		return "", fmt.Errorf("write container: %w", err)
	}

	f.log.WithFields(logrus.Fields{
		"input":  inputPath,
		"output": outputPath,
		"mode":   f.session.Mode(),
		"size":   len(data),
	}).Info("encrypted file")

	return outputPath, nil
}

// DecryptFile reads a container from inputPath, decrypts it, and writes
// the plaintext to outputPath. An empty outputPath defaults to the
// original file name (from the container metadata) in inputPath's
// directory. No plaintext reaches disk unless every verification layer
// passed.
func (f *FileEncryptor) DecryptFile(inputPath, outputPath string) (string, error) {
	container, err := os.ReadFile(inputPath)
	if err != nil {
		return "", fmt.Errorf("read container: %w", err)
	}

	env, err := crypto.UnmarshalContainer(container)
	if err != nil {
		return "", err
	}

	plaintext, err := f.session.Decrypt(env)
	if err != nil {
		return "", err
	}

	if outputPath == "" {
		name := env.Metadata.OriginalName
		if name == "" {
			name = "decrypted"
		}
		outputPath = filepath.Join(filepath.Dir(inputPath), name)
	}

	if err := writeFileAtomic(outputPath, plaintext, 0o600); err != nil {
		return "", fmt.Errorf("write plaintext: %w", err)
	}

	f.log.WithFields(logrus.Fields{
		"input":  inputPath,
		"output": outputPath,
		"size":   len(plaintext),
	}).Info("decrypted file")

	return outputPath, nil
}

// FileResult records the outcome of one file in a batch.
type FileResult struct {
	// Input is the source file path.
	Input string
	// Output is the written file path; empty when the file failed.
	Output string
	// Err is the per-file failure, nil on success.
	Err error
}

// BatchResult summarizes a directory batch.
type BatchResult struct {
	Total     int
	Succeeded int
	Failed    int
	Files     []FileResult
}

func (r *BatchResult) record(input, output string, err error) {
	r.Total++
	if err != nil {
		r.Failed++
	} else {
		r.Succeeded++
	}
	r.Files = append(r.Files, FileResult{Input: input, Output: output, Err: err})
}

// EncryptDir encrypts every regular file under inputDir into outputDir,
// mirroring the directory layout and appending ".qsenc" to each name.
// Files are processed independently: one file's failure is recorded and
// the batch continues. The error return covers only setup failures
// (unreadable root, bad output dir), never per-file errors.
func (f *FileEncryptor) EncryptDir(inputDir, outputDir string) (*BatchResult, error) {
	if outputDir == "" {
		outputDir = filepath.Clean(inputDir) + "_encrypted"
	}

	result := &BatchResult{}
	err := f.walkBatch(inputDir, func(path, rel string) {
		outputPath := filepath.Join(outputDir, rel+EncryptedExt)
		if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
			result.record(path, "", err)
			return
		}

		output, err := f.EncryptFile(path, outputPath)
		if err != nil {
			f.log.WithField("input", path).WithError(err).Warn("failed to encrypt file")
			result.record(path, "", err)
			return
		}
		result.record(path, output, nil)
	})
	if err != nil {
		return nil, err
	}

	f.logSummary("encryption", result)
	return result, nil
}

// DecryptDir decrypts every container file under inputDir into
// outputDir. Non-container files are recorded as per-file failures, not
// fatal errors.
func (f *FileEncryptor) DecryptDir(inputDir, outputDir string) (*BatchResult, error) {
	if outputDir == "" {
		outputDir = filepath.Clean(inputDir) + "_decrypted"
	}

	result := &BatchResult{}
	err := f.walkBatch(inputDir, func(path, rel string) {
		name := rel
		if filepath.Ext(name) == EncryptedExt {
			name = name[:len(name)-len(EncryptedExt)]
		}
		outputPath := filepath.Join(outputDir, name)
		if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
			result.record(path, "", err)
			return
		}

		output, err := f.DecryptFile(path, outputPath)
		if err != nil {
			f.log.WithField("input", path).WithError(err).Warn("failed to decrypt file")
			result.record(path, "", err)
			return
		}
		result.record(path, output, nil)
	})
	if err != nil {
		return nil, err
	}

	f.logSummary("decryption", result)
	return result, nil
}

// walkBatch visits every regular file under root. Walk errors on
// individual entries are swallowed so one unreadable subtree cannot
// abort the batch; an unreadable root is fatal.
func (f *FileEncryptor) walkBatch(root string, visit func(path, rel string)) error {
	if _, err := os.Stat(root); err != nil {
		return fmt.Errorf("read input dir: %w", err)
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			f.log.WithField("path", path).WithError(err).Warn("skipping unreadable entry")
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		visit(path, rel)
		return nil
	})
}

func (f *FileEncryptor) logSummary(op string, result *BatchResult) {
	f.log.WithFields(logrus.Fields{
		"total":     result.Total,
		"succeeded": result.Succeeded,
		"failed":    result.Failed,
	}).Infof("batch %s finished", op)
}

// writeFileAtomic writes data to path through a temp file in the same
// directory, fsyncs, then renames into place. The temp file is removed
// on every failure path so neither plaintext nor key material can leak
// into a half-written file.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	defer func() {
		if tmpPath != "" {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}
	tmpPath = "" // disarm cleanup
	return nil
}
