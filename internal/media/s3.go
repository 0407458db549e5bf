// Package media загружает пользовательские изображения в S3-совместимое хранилище
// и удаляет их по идентификатору.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/videotube/internal/config"
)

// ErrEmptyPath возвращается при попытке загрузить файл без пути.
var ErrEmptyPath = errors.New("empty local path")

// Asset описывает загруженный объект.
type Asset struct {
	URL      string
	PublicID string
}

type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Host хранит объекты в одном бакете и отдает их по PublicBaseURL.
type Host struct {
	client  objectAPI
	bucket  string
	baseURL string
}

// New создает клиента S3 по настройкам медиахостинга.
func New(ctx context.Context, cfg config.Media) (*Host, error) {
	const op = "media.New"

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		baseURL = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return newHost(client, cfg.Bucket, baseURL), nil
}

func newHost(client objectAPI, bucket, baseURL string) *Host {
	return &Host{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Upload загружает локальный файл под новым ключом и возвращает его публичный URL.
func (h *Host) Upload(ctx context.Context, localPath string) (*Asset, error) {
	const op = "media.Upload"
	if localPath == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyPath)
	}

	f, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer f.Close()

	contentType, err := detectContentType(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	key := uuid.NewString()
	_, err = h.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(h.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Asset{URL: h.baseURL + "/" + key, PublicID: key}, nil
}

// Delete удаляет объект по идентификатору.
func (h *Host) Delete(ctx context.Context, publicID string) error {
	const op = "media.Delete"
	if publicID == "" {
		return fmt.Errorf("%s: empty public id", op)
	}
	_, err := h.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(h.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// PublicIDFromURL возвращает идентификатор объекта: последний сегмент пути без расширения.
func PublicIDFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	name := path.Base(u.Path)
	if name == "/" || name == "." {
		return ""
	}
	return strings.TrimSuffix(name, path.Ext(name))
}

func detectContentType(f *os.File) (string, error) {
	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(buf[:n]), nil
}
