package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// StorageService keeps uploaded files for the duration of a request.
type StorageService interface {
	Save(ctx context.Context, fileType, filename string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
}

// LocalStorageService keeps uploads on the local filesystem.
type LocalStorageService interface {
	StorageService
	GetFilePath(key string) string
	EnsureUploadDir() error
}

type storageService struct {
	uploadPath string
}

func NewStorageService(uploadPath string) LocalStorageService {
	return &storageService{
		uploadPath: uploadPath,
	}
}

func (s *storageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

// Save writes data under a unique name and returns that name as the key.
func (s *storageService) Save(_ context.Context, fileType, filename string, data []byte) (string, error) {
	key := uniqueFilename(fileType, filename)

	if err := os.WriteFile(s.GetFilePath(key), data, 0644); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return key, nil
}

func (s *storageService) GetFilePath(key string) string {
	return filepath.Join(s.uploadPath, key)
}

func (s *storageService) Delete(_ context.Context, key string) error {
	if err := os.Remove(s.GetFilePath(key)); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func uniqueFilename(fileType, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%s_%s%s", fileType, uuid.New().String(), ext)
}
