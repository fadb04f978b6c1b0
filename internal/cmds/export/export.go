package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/cmdshop/cmdshop/internal/cmds"
)

const contentType = "application/json"

// Lister is the slice of the cmd service the exporter needs.
type Lister interface {
	ListAll(ctx context.Context) ([]*cmds.Cmd, error)
}

// ObjectStore is satisfied by storage.MinIOStorage.
type ObjectStore interface {
	UploadFile(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	GetPresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

// Snapshot describes one uploaded export.
type Snapshot struct {
	Key   string `json:"key"`
	URL   string `json:"url"`
	Count int    `json:"count"`
}

// Exporter uploads the full cmd list as a JSON array.
type Exporter struct {
	lister Lister
	store  ObjectStore
	urlTTL time.Duration
	now    func() time.Time
}

func NewExporter(l Lister, store ObjectStore, urlTTL time.Duration) *Exporter {
	if urlTTL <= 0 {
		urlTTL = 15 * time.Minute
	}
	return &Exporter{lister: l, store: store, urlTTL: urlTTL, now: time.Now}
}

// Export writes snapshots/cmds-<UTC time>.json and returns a presigned GET
// URL for it.
func (e *Exporter) Export(ctx context.Context) (*Snapshot, error) {
	list, err := e.lister.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	b, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	key := "snapshots/cmds-" + e.now().UTC().Format("20060102T150405Z") + ".json"
	if err := e.store.UploadFile(ctx, key, bytes.NewReader(b), int64(len(b)), contentType); err != nil {
		return nil, fmt.Errorf("upload snapshot: %w", err)
	}
	url, err := e.store.GetPresignedURL(ctx, key, e.urlTTL)
	if err != nil {
		return nil, fmt.Errorf("presign snapshot: %w", err)
	}
	return &Snapshot{Key: key, URL: url, Count: len(list)}, nil
}
