// Package export загружает отчёты о сессиях в S3-совместимое хранилище.
// Экспорт необязателен: без настроенного endpoint приложение работает
// как обычно, команда экспорта возвращает понятную ошибку.
package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/config"
	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/utils"
)

// Uploader — клиент архива отчётов.
type Uploader struct {
	api    *minio.Client
	bucket string
}

// New создаёт клиент по конфигурации экспорта.
func New(cfg config.ExportConfig) (*Uploader, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create export client: %w", err)
	}

	return &Uploader{
		api:    client,
		bucket: cfg.Bucket,
	}, nil
}

// UploadReport кладёт markdown-отчёт в бакет и возвращает ключ объекта.
// Ключи группируются по дате экспорта: reports/<дата>/<id сессии>.md.
func (u *Uploader) UploadReport(ctx context.Context, sessionID uuid.UUID, report string) (string, error) {
	key := fmt.Sprintf("reports/%s/%s.md", time.Now().UTC().Format("2006-01-02"), sessionID)

	reader := strings.NewReader(report)
	_, err := u.api.PutObject(ctx, u.bucket, key, reader, int64(reader.Len()), minio.PutObjectOptions{
		ContentType: "text/markdown",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload report %s: %w", key, err)
	}

	utils.Info("session report uploaded", "bucket", u.bucket, "key", key, "bytes", len(report))

	return key, nil
}
