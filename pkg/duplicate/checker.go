package duplicate

import (
	"context"
	"crypto/md5"
	"encoding/hex"
)

// Checker provides duplicate detection for uploads
type Checker interface {
	// Check looks for an earlier upload of the same content by the same owner
	Check(ctx context.Context, owner, md5Hash string) (*Upload, error)

	// FindByFilename returns the owner's earlier uploads of files with this
	// base name, newest first
	FindByFilename(ctx context.Context, owner, filename string) ([]*Upload, error)

	// Record saves an upload to the cache
	Record(ctx context.Context, upload *Upload) error
}

// Fingerprint returns the hex MD5 of file content, the key Check matches on
func Fingerprint(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// NopChecker never finds duplicates and records nothing
type NopChecker struct{}

// Check always reports no duplicate
func (NopChecker) Check(context.Context, string, string) (*Upload, error) { return nil, nil }

// FindByFilename always reports no earlier uploads
func (NopChecker) FindByFilename(context.Context, string, string) ([]*Upload, error) {
	return nil, nil
}

// Record discards the upload
func (NopChecker) Record(context.Context, *Upload) error { return nil }
