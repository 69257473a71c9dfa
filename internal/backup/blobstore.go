package backup

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"
)

// Compression identifies the codec applied to blobs on disk.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionGzip Compression = "gzip"
	CompressionXZ   Compression = "xz"
)

var allCompressions = []Compression{CompressionNone, CompressionGzip, CompressionXZ}

var (
	// ErrBlobNotFound indicates the addressed blob is missing from the store.
	ErrBlobNotFound = errors.New("backup: blob not found")
	// ErrBlobCorrupt indicates stored bytes no longer match their address.
	ErrBlobCorrupt = errors.New("backup: blob contents do not match address")
	// ErrCompressionUnsupported indicates an unknown blob codec.
	ErrCompressionUnsupported = errors.New("backup: unsupported compression")
)

// ParseCompression maps a configuration value onto a blob codec.
func ParseCompression(value string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "none":
		return CompressionNone, nil
	case "gzip", "gz":
		return CompressionGzip, nil
	case "xz":
		return CompressionXZ, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrCompressionUnsupported, value)
	}
}

// BlobInfo describes a stored blob. Digests and size always refer to the
// uncompressed document bytes.
type BlobInfo struct {
	SHA256      string
	BLAKE3      string
	Size        int64
	Compression Compression
}

// BlobStore persists document bytes in a content addressed layout under a
// single root directory. Blobs are keyed by the SHA-256 of the uncompressed
// content, so identical documents share storage regardless of how many
// snapshots reference them.
type BlobStore struct {
	root        string
	compression Compression
}

// BlobStoreOption configures a BlobStore.
type BlobStoreOption func(*BlobStore)

// WithCompression selects the codec used for newly written blobs.
func WithCompression(compression Compression) BlobStoreOption {
	return func(s *BlobStore) {
		if compression != "" {
			s.compression = compression
		}
	}
}

// NewBlobStore creates the root directory if needed and returns a store
// writing gzip compressed blobs unless configured otherwise.
func NewBlobStore(root string, opts ...BlobStoreOption) (*BlobStore, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("backup: blob store root is required")
	}
	store := &BlobStore{root: root, compression: CompressionGzip}
	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}
	if _, err := ParseCompression(string(store.compression)); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("backup: create blob store root: %w", err)
	}
	return store, nil
}

// Root returns the store's base directory.
func (s *BlobStore) Root() string {
	return s.root
}

// Store writes data into the store and returns its digests. Writing the
// same content twice is a no-op beyond hashing.
func (s *BlobStore) Store(data []byte) (*BlobInfo, error) {
	info := &BlobInfo{
		SHA256:      Hash(data),
		BLAKE3:      hashBlake3(data),
		Size:        int64(len(data)),
		Compression: s.compression,
	}
	path := s.blobPath(info.SHA256, s.compression)
	if _, err := os.Stat(path); err == nil {
		return info, nil
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("backup: stat blob %s: %w", info.SHA256, err)
	}
	encoded, err := compress(data, s.compression)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("backup: create blob directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".blob-*")
	if err != nil {
		return nil, fmt.Errorf("backup: create temporary blob: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(encoded); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return nil, fmt.Errorf("backup: write blob %s: %w", info.SHA256, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return nil, fmt.Errorf("backup: close blob %s: %w", info.SHA256, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return nil, fmt.Errorf("backup: store blob %s: %w", info.SHA256, err)
	}
	return info, nil
}

// Retrieve loads and decodes a blob, verifying the bytes still match the
// requested address before returning them.
func (s *BlobStore) Retrieve(hash string, compression Compression) ([]byte, error) {
	encoded, err := os.ReadFile(s.blobPath(hash, compression))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, hash)
		}
		return nil, fmt.Errorf("backup: read blob %s: %w", hash, err)
	}
	data, err := decompress(encoded, compression)
	if err != nil {
		return nil, fmt.Errorf("backup: decode blob %s: %w", hash, err)
	}
	if Hash(data) != hash {
		return nil, fmt.Errorf("%w: %s", ErrBlobCorrupt, hash)
	}
	return data, nil
}

// Exists reports whether the addressed blob is present on disk.
func (s *BlobStore) Exists(hash string, compression Compression) bool {
	_, err := os.Stat(s.blobPath(hash, compression))
	return err == nil
}

// Remove deletes a blob from disk. Removing a blob that is already gone is
// not an error.
func (s *BlobStore) Remove(hash string, compression Compression) error {
	if err := os.Remove(s.blobPath(hash, compression)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("backup: remove blob %s: %w", hash, err)
	}
	return nil
}

// Blobs written with different codecs live side by side under the same
// prefix directory, distinguished by extension. Retrieval therefore needs
// the codec recorded alongside the hash.
func (s *BlobStore) blobPath(hash string, compression Compression) string {
	prefix := hash
	if len(prefix) > 2 {
		prefix = prefix[:2]
	}
	return filepath.Join(s.root, prefix, hash+compressionExt(compression))
}

// Hash returns the hex encoded SHA-256 digest used to address blobs.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func hashBlake3(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func compressionExt(compression Compression) string {
	switch compression {
	case CompressionGzip:
		return ".gz"
	case CompressionXZ:
		return ".xz"
	default:
		return ""
	}
}

func compress(data []byte, compression Compression) ([]byte, error) {
	switch compression {
	case CompressionNone:
		return data, nil
	case CompressionGzip:
		var buf bytes.Buffer
		w := gzip.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("backup: gzip blob: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("backup: gzip blob: %w", err)
		}
		return buf.Bytes(), nil
	case CompressionXZ:
		var buf bytes.Buffer
		w, err := xz.NewWriter(&buf)
		if err != nil {
			return nil, fmt.Errorf("backup: xz blob: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("backup: xz blob: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("backup: xz blob: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrCompressionUnsupported, compression)
	}
}

func decompress(data []byte, compression Compression) ([]byte, error) {
	switch compression {
	case CompressionNone:
		return data, nil
	case CompressionGzip:
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(r)
	case CompressionXZ:
		r, err := xz.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return io.ReadAll(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrCompressionUnsupported, compression)
	}
}
