package duplicate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Upload is a cached record of a file pushed to a repository
type Upload struct {
	FileMD5    string
	Owner      string
	Repo       string // Resolved repository the file landed in
	Path       string // Path inside the repository
	URL        string // CDN URL
	Width      uint
	Height     uint
	UploadTime time.Time
	Filename   string
	FileSize   int64
}

// SQLiteCache implements local duplicate checking via SQLite
type SQLiteCache struct {
	db *sql.DB
}

// NewSQLiteCache opens (and creates if needed) the cache at dbPath
func NewSQLiteCache(dbPath string) (*SQLiteCache, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	cache := &SQLiteCache{db: db}
	if err := cache.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	return cache, nil
}

func (c *SQLiteCache) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS uploads (
		file_md5 TEXT NOT NULL,
		owner TEXT NOT NULL,
		repo TEXT NOT NULL,
		path TEXT NOT NULL,
		url TEXT NOT NULL,
		width INTEGER,
		height INTEGER,
		upload_time INTEGER,
		filename TEXT,
		file_size INTEGER,
		PRIMARY KEY (file_md5, owner)
	);

	CREATE INDEX IF NOT EXISTS idx_owner_filename ON uploads(owner, filename);
	`

	_, err := c.db.Exec(schema)
	return err
}

const selectColumns = `file_md5, owner, repo, path, url, width, height, upload_time, filename, file_size`

type scanner interface {
	Scan(dest ...any) error
}

func scanUpload(row scanner) (*Upload, error) {
	var upload Upload
	var uploadTime int64

	err := row.Scan(
		&upload.FileMD5,
		&upload.Owner,
		&upload.Repo,
		&upload.Path,
		&upload.URL,
		&upload.Width,
		&upload.Height,
		&uploadTime,
		&upload.Filename,
		&upload.FileSize,
	)
	if err != nil {
		return nil, err
	}

	upload.UploadTime = time.Unix(uploadTime, 0)
	return &upload, nil
}

// Check looks up a file by owner and MD5 hash. A miss returns nil, nil.
func (c *SQLiteCache) Check(ctx context.Context, owner, md5Hash string) (*Upload, error) {
	query := `SELECT ` + selectColumns + ` FROM uploads WHERE file_md5 = ? AND owner = ?`

	upload, err := scanUpload(c.db.QueryRowContext(ctx, query, md5Hash, owner))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query upload: %w", err)
	}
	return upload, nil
}

// Record saves an upload to the cache, replacing an earlier record
func (c *SQLiteCache) Record(ctx context.Context, upload *Upload) error {
	query := `
		INSERT OR REPLACE INTO uploads (` + selectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	uploadTime := upload.UploadTime
	if uploadTime.IsZero() {
		uploadTime = time.Now()
	}

	_, err := c.db.ExecContext(ctx, query,
		upload.FileMD5,
		upload.Owner,
		upload.Repo,
		upload.Path,
		upload.URL,
		upload.Width,
		upload.Height,
		uploadTime.Unix(),
		upload.Filename,
		upload.FileSize,
	)
	if err != nil {
		return fmt.Errorf("record upload: %w", err)
	}

	return nil
}

// FindByFilename returns the owner's uploads with a matching filename,
// newest first
func (c *SQLiteCache) FindByFilename(ctx context.Context, owner, filename string) ([]*Upload, error) {
	query := `SELECT ` + selectColumns + ` FROM uploads WHERE owner = ? AND filename = ? ORDER BY upload_time DESC`

	rows, err := c.db.QueryContext(ctx, query, owner, filename)
	if err != nil {
		return nil, fmt.Errorf("query by filename: %w", err)
	}
	defer rows.Close()

	var uploads []*Upload
	for rows.Next() {
		upload, err := scanUpload(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		uploads = append(uploads, upload)
	}

	return uploads, rows.Err()
}

// Close closes the database connection
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

// CachePath returns the cache database path inside a config directory
func CachePath(configDir string) string {
	return filepath.Join(configDir, "uploads.db")
}
