package bundle

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/blacktop/lzfse"
	"github.com/google/uuid"

	"github.com/smith-tools/sosumi/internal/logging"
)

// Decrypted is the result of opening a bundle envelope: a filesystem path to
// the extracted SQLite file, the markdown assets materialized alongside it,
// and the parsed metadata record.
type Decrypted struct {
	DatabasePath  string
	MarkdownFiles map[string]string // filename -> absolute path
	Metadata      Metadata
	WorkDir       string
}

// Decryptor performs the once-per-process bundle open. Concurrent callers
// race on a sync.Once first-writer-wins guard; every caller after the first
// observes the same cached result.
type Decryptor struct {
	once    sync.Once
	result  *Decrypted
	openErr error
	root    string // parent directory for working directories
}

// NewDecryptor builds a Decryptor whose working directories are created
// under root (typically $HOME/.sosumi/work).
func NewDecryptor(root string) *Decryptor {
	return &Decryptor{root: root}
}

// Open decrypts and decompresses the envelope at envelopePath with key,
// caching the result for the lifetime of the Decryptor. Safe for concurrent
// use.
func (d *Decryptor) Open(envelopePath string, key []byte) (*Decrypted, error) {
	d.once.Do(func() {
		d.result, d.openErr = d.openOnce(envelopePath, key)
	})
	return d.result, d.openErr
}

func (d *Decryptor) openOnce(envelopePath string, key []byte) (*Decrypted, error) {
	log := logging.Get(logging.CategoryBundle)
	defer logging.Since(logging.CategoryBundle, "decrypt+decompress", time.Now())

	raw, err := os.ReadFile(envelopePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read envelope: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &DecryptionFailedError{Reason: fmt.Sprintf("malformed envelope JSON: %v", err)}
	}

	ciphertext, err := base64.StdEncoding.DecodeString(env.EncryptedData)
	if err != nil {
		return nil, &DecryptionFailedError{Reason: fmt.Sprintf("invalid base64 encryptedData: %v", err)}
	}
	nonce, err := base64.StdEncoding.DecodeString(env.IV)
	if err != nil || len(nonce) != 12 {
		return nil, &DecryptionFailedError{Reason: "invalid 12-byte iv"}
	}
	tag, err := base64.StdEncoding.DecodeString(env.Tag)
	if err != nil || len(tag) != 16 {
		return nil, &DecryptionFailedError{Reason: "invalid 16-byte tag"}
	}

	plaintext, err := aesGCMDecrypt(key, nonce, ciphertext, tag)
	if err != nil {
		log.Error("AEAD authentication failed: %v", err)
		return nil, &DecryptionFailedError{Reason: "AEAD tag mismatch"}
	}

	decompressed, err := lzfse.DecodeBuffer(plaintext)
	if err != nil {
		return nil, &DecompressionFailedError{Reason: err.Error()}
	}

	if env.Metadata.Checksum != "" {
		sum := sha256.Sum256(decompressed)
		actual := hex.EncodeToString(sum[:])
		if actual != env.Metadata.Checksum {
			return nil, &IntegrityError{Expected: env.Metadata.Checksum, Actual: actual}
		}
	}

	var p payload
	if err := json.Unmarshal(decompressed, &p); err != nil {
		return nil, &DecryptionFailedError{Reason: fmt.Sprintf("malformed payload JSON: %v", err)}
	}

	workDir := filepath.Join(d.root, uuid.New().String())
	if err := os.MkdirAll(workDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create working directory: %w", err)
	}

	dbBytes, err := base64.StdEncoding.DecodeString(p.Database.Data)
	if err != nil {
		return nil, &DecryptionFailedError{Reason: fmt.Sprintf("invalid base64 database data: %v", err)}
	}
	dbPath := filepath.Join(workDir, "wwdc.db")
	if err := os.WriteFile(dbPath, dbBytes, 0600); err != nil {
		return nil, fmt.Errorf("failed to write database file: %w", err)
	}

	markdownFiles := make(map[string]string)
	if p.Markdown != nil {
		for name, b64 := range p.Markdown.Files {
			content, err := base64.StdEncoding.DecodeString(b64)
			if err != nil {
				log.Warn("skipping markdown file %s: invalid base64", name)
				continue
			}
			path := filepath.Join(workDir, filepath.Base(name))
			if err := os.WriteFile(path, content, 0600); err != nil {
				log.Warn("skipping markdown file %s: %v", name, err)
				continue
			}
			markdownFiles[name] = path
		}
	}

	log.Info("bundle extracted to %s (%d bytes db, %d markdown files)", workDir, len(dbBytes), len(markdownFiles))

	return &Decrypted{
		DatabasePath:  dbPath,
		MarkdownFiles: markdownFiles,
		Metadata:      env.Metadata,
		WorkDir:       workDir,
	}, nil
}

// Close removes the working directory, if one was created. Best-effort: a
// crash before this runs leaves the directory for SweepStale to collect.
func (d *Decryptor) Close() error {
	if d.result == nil || d.result.WorkDir == "" {
		return nil
	}
	return os.RemoveAll(d.result.WorkDir)
}

func aesGCMDecrypt(key, nonce, ciphertext, tag []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	// Go's cipher.AEAD expects ciphertext||tag concatenated; the wire format
	// carries them separately, so splice them back together before Open.
	sealed := append(append([]byte{}, ciphertext...), tag...)
	return gcm.Open(nil, nonce, sealed, nil)
}
