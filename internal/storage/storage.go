package storage

import (
	"context"
)

// FileStorage — внешний коллаборатор для хранения файлов (фото профилей).
type FileStorage interface {
	UploadFile(ctx context.Context, data []byte, filename string) (string, error)
	DeleteFile(ctx context.Context, fileURL string) error
}
