// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client with the narrow interface the snapshot
// archive retention step needs: uploading the raw downloaded archive for
// provenance and pruning archives past the retention window. The abstraction
// supports both AWS S3 and self-hosted MinIO instances.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it
// easy to mock storage interactions for unit testing (see core/storage/mocks).
//
// # Operations
//
//   - BucketExists / MakeBucket: ensure the archive bucket is usable.
//   - PutObject: upload a retained snapshot archive.
//   - ListObjects: enumerate retained archives (for pruning).
//   - RemoveObject: prune an archive past the retention window.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
package storage
