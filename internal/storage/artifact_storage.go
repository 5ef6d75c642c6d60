package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/h2non/filetype"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const pdfMIME = "application/pdf"

// ErrNotPDF возвращается, если байты не являются PDF документом.
var ErrNotPDF = errors.New("storage: содержимое не является PDF")

// Options параметры S3 совместимого хранилища.
type Options struct {
	Endpoint     string
	AccessKey    string
	SecretKey    string
	UseSSL       bool
	Bucket       string
	Region       string
	PresignedTTL time.Duration
}

// Location адрес сохранённого артефакта.
type Location struct {
	Bucket string `json:"bucket"`
	Path   string `json:"path"`
	URL    string `json:"url,omitempty"`
}

// ArtifactStorage хранит сгенерированные PDF в объектном хранилище.
type ArtifactStorage struct {
	client     *minio.Client
	bucket     string
	region     string
	presignTTL time.Duration
}

// NewArtifactStorage создаёт клиента хранилища. Сеть не используется до первого запроса.
func NewArtifactStorage(opts Options) (*ArtifactStorage, error) {
	if opts.Endpoint == "" || opts.Bucket == "" {
		return nil, fmt.Errorf("storage: endpoint и bucket обязательны")
	}

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: не удалось создать клиента: %w", err)
	}

	ttl := opts.PresignedTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ArtifactStorage{client: client, bucket: opts.Bucket, region: opts.Region, presignTTL: ttl}, nil
}

// EnsureBucket создаёт бакет, если его ещё нет.
func (s *ArtifactStorage) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("storage: не удалось проверить бакет %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
		return fmt.Errorf("storage: не удалось создать бакет %s: %w", s.bucket, err)
	}
	return nil
}

// Store загружает PDF по пути objectPath и возвращает его адрес
// с временной ссылкой на скачивание.
func (s *ArtifactStorage) Store(ctx context.Context, objectPath string, data []byte) (*Location, error) {
	if err := ValidatePDF(data); err != nil {
		return nil, err
	}
	objectPath, err := cleanObjectPath(objectPath)
	if err != nil {
		return nil, err
	}

	_, err = s.client.PutObject(ctx, s.bucket, objectPath, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: pdfMIME},
	)
	if err != nil {
		return nil, fmt.Errorf("storage: не удалось загрузить %s: %w", objectPath, err)
	}

	loc := &Location{Bucket: s.bucket, Path: objectPath}

	params := url.Values{}
	params.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", path.Base(objectPath)))
	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, objectPath, s.presignTTL, params)
	if err != nil {
		return nil, fmt.Errorf("storage: не удалось подписать ссылку: %w", err)
	}
	loc.URL = presigned.String()
	return loc, nil
}

// ValidatePDF проверяет магические байты содержимого.
func ValidatePDF(data []byte) error {
	if len(data) == 0 {
		return ErrNotPDF
	}
	head := data
	if len(head) > 262 {
		head = head[:262]
	}
	kind, err := filetype.Match(head)
	if err != nil || kind.MIME.Value != pdfMIME {
		return ErrNotPDF
	}
	return nil
}

// cleanObjectPath запрещает выход за пределы бакета и абсолютные пути.
func cleanObjectPath(p string) (string, error) {
	p = strings.TrimSpace(strings.ReplaceAll(p, "\\", "/"))
	if p == "" || strings.Contains(p, "..") {
		return "", fmt.Errorf("storage: некорректный путь объекта %q", p)
	}
	return strings.TrimLeft(path.Clean(p), "/"), nil
}
