package services

import (
	"context"
	"log"
	"sync"
)

// UploadBatch tracks the files stored for one request so they can be
// released together on every exit path.
type UploadBatch struct {
	storage StorageService

	mu   sync.Mutex
	keys []string
}

func NewUploadBatch(storage StorageService) *UploadBatch {
	return &UploadBatch{storage: storage}
}

// Store saves data and registers it for release.
func (b *UploadBatch) Store(ctx context.Context, fileType, filename string, data []byte) error {
	key, err := b.storage.Save(ctx, fileType, filename, data)
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.keys = append(b.keys, key)
	b.mu.Unlock()
	return nil
}

// Release deletes every stored file. Failures are logged and the remaining
// files are still deleted.
func (b *UploadBatch) Release(ctx context.Context) {
	b.mu.Lock()
	keys := b.keys
	b.keys = nil
	b.mu.Unlock()

	for _, key := range keys {
		if err := b.storage.Delete(ctx, key); err != nil {
			log.Printf("⚠️  Failed to release upload %s: %v\n", key, err)
		}
	}
}

// Len reports how many files are held.
func (b *UploadBatch) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.keys)
}
