package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// SnapshotUUID keys a snapshot by document key plus content hash, so storing
// identical content twice resolves to the same record.
func SnapshotUUID(documentKey, sha256Hex string) uuid.UUID {
	return UUID("go-footnotes:snapshot:" + strings.TrimSpace(documentKey) + ":" + strings.ToLower(strings.TrimSpace(sha256Hex)))
}

// DocumentUUID identifies a document by its normalized key.
func DocumentUUID(documentKey string) uuid.UUID {
	return UUID("go-footnotes:document:" + strings.TrimSpace(documentKey))
}
