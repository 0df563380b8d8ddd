package fetch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/minio/minio-go/v7"

	"github.com/danass/leha/core/storage"
)

// Retain uploads the downloaded archive to object storage and prunes old
// archives beyond the configured retention count. A keep count of zero keeps
// everything.
func Retain(ctx context.Context, client storage.Client, cfg storage.Config, archivePath string) error {
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return fmt.Errorf("checking bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return fmt.Errorf("creating bucket %s: %w", cfg.Bucket, err)
		}
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stating archive: %w", err)
	}

	objectName := filepath.Base(archivePath)
	_, err = client.PutObject(ctx, cfg.Bucket, objectName, f, info.Size(), minio.PutObjectOptions{
		ContentType: "application/zip",
	})
	if err != nil {
		return fmt.Errorf("uploading archive %s: %w", objectName, err)
	}

	if cfg.Keep <= 0 {
		return nil
	}
	return prune(ctx, client, cfg.Bucket, cfg.Keep)
}

// prune deletes the oldest archives, keeping the newest keep objects.
func prune(ctx context.Context, client storage.Client, bucket string, keep int) error {
	var objects []minio.ObjectInfo
	for obj := range client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return fmt.Errorf("listing bucket %s: %w", bucket, obj.Err)
		}
		objects = append(objects, obj)
	}
	if len(objects) <= keep {
		return nil
	}

	sort.Slice(objects, func(i, j int) bool {
		return objects[i].LastModified.After(objects[j].LastModified)
	})
	for _, obj := range objects[keep:] {
		if err := client.RemoveObject(ctx, bucket, obj.Key, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("removing archive %s: %w", obj.Key, err)
		}
	}
	return nil
}
