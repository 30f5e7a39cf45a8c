package storage

import (
	"context"
	"fmt"
	"mime"
	"path"
	"strings"
	"time"

	"Tuder/config"
	"Tuder/logger"
	"Tuder/model"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Object prefixes used by the library.
const (
	PrefixMusic         = "musics"
	PrefixMusicCover    = "musics/covers"
	PrefixPlaylistCover = "playlists/covers"
	PrefixProfileImage  = "users/images"
)

// BlobStore stores uploaded files and hands back an opaque reference.
type BlobStore interface {
	Put(ctx context.Context, prefix string, res *model.Resource) (string, error)
}

// MinioStore 基于 MinIO 的对象存储
type MinioStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewMinioClient 创建 MinIO 客户端
func NewMinioClient(cfg *config.Config) (*minio.Client, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("创建 MinIO 客户端失败: %w", err)
	}
	return client, nil
}

// NewMinioStore connects to MinIO and makes sure the bucket exists.
func NewMinioStore(ctx context.Context, cfg *config.Config) (*MinioStore, error) {
	client, err := NewMinioClient(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// 检查存储桶是否存在
	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("检查存储桶失败: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{Region: cfg.MinioRegion}); err != nil {
			return nil, fmt.Errorf("创建存储桶失败: %w", err)
		}
		logger.Info("created bucket", logger.String("bucket", cfg.MinioBucket))
	}

	logger.Info("MinIO client ready",
		logger.String("endpoint", cfg.MinioEndpoint),
		logger.String("bucket", cfg.MinioBucket))
	return &MinioStore{client: client, bucket: cfg.MinioBucket, publicURL: cfg.MinioPublicURL}, nil
}

// Client exposes the underlying client for the admin commands.
func (s *MinioStore) Client() *minio.Client {
	return s.client
}

// Bucket 返回存储桶名称
func (s *MinioStore) Bucket() string {
	return s.bucket
}

// ObjectKey returns a fresh object name under prefix keeping the file's extension.
func ObjectKey(prefix, filename string) string {
	return path.Join(prefix, uuid.New().String()+strings.ToLower(path.Ext(filename)))
}

// PublicRef joins the public base URL and an object key.
func PublicRef(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}

func contentType(res *model.Resource) string {
	if res.ContentType != "" {
		return res.ContentType
	}
	if ct := mime.TypeByExtension(res.Ext()); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// Put uploads res under prefix and returns its public reference.
func (s *MinioStore) Put(ctx context.Context, prefix string, res *model.Resource) (string, error) {
	if !res.Present() {
		return "", fmt.Errorf("nothing to upload under %s", prefix)
	}
	key := ObjectKey(prefix, res.Filename)

	info, err := s.client.PutObject(ctx, s.bucket, key, res.Body, res.Size, minio.PutObjectOptions{
		ContentType: contentType(res),
	})
	if err != nil {
		logger.Error("上传对象失败",
			logger.String("key", key),
			logger.Int64("size", res.Size),
			logger.ErrorField(err))
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	logger.Debug("对象上传成功", logger.String("key", key), logger.Int64("size", info.Size))
	return PublicRef(s.publicURL, key), nil
}
