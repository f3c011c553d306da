package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ArchiveService persists flat JSON snapshots of completed runs so they can
// be inspected or replayed later. This is the only persistence the engine's
// outputs get.
type ArchiveService interface {
	ArchiveRun(ctx context.Context, kind string, runID uuid.UUID, payload any) error
}

type minioArchive struct {
	client *minio.Client
	bucket string
}

func NewMinioArchiveService(endpoint, accessKey, secretKey string, useSSL bool, bucket string) (ArchiveService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}

	a := &minioArchive{client: client, bucket: bucket}
	if err := a.ensureBucket(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to prepare archive bucket %q: %w", bucket, err)
	}
	return a, nil
}

func (a *minioArchive) ensureBucket(ctx context.Context) error {
	found, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return err
	}
	if !found {
		return a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{})
	}
	return nil
}

func (a *minioArchive) ArchiveRun(ctx context.Context, kind string, runID uuid.UUID, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s run %s: %w", kind, runID, err)
	}
	objectName := fmt.Sprintf("%s/%s.json", kind, runID)
	_, err = a.client.PutObject(ctx, a.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	return err
}
