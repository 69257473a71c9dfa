package backups

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Snapshot indexes one content-addressed backup of a document. Rows carry
// metadata only; the document bytes live in the blob store under SHA256.
type Snapshot struct {
	bun.BaseModel `bun:"table:document_snapshots,alias:ds"`

	ID          uuid.UUID `bun:",pk,type:uuid"        json:"id"`
	DocumentKey string    `bun:"document_key,notnull" json:"document_key"`
	SHA256      string    `bun:"sha256,notnull"       json:"sha256"`
	BLAKE3      string    `bun:"blake3,notnull"       json:"blake3"`
	Size        int64     `bun:"size,notnull"         json:"size"`
	Compression string    `bun:"compression,notnull,default:'none'" json:"compression"`
	CreatedAt   time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}
