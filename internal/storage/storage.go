package storage

import (
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"

	"github.com/Soft/lastfm-archiver/internal/config"
)

// Client routes export files to the configured backend. Local disk is the
// default; any S3-compatible endpoint works for off-machine copies.
type Client struct {
	backend Provider
	bucket  string
}

func New(cfg *config.Config) *Client {
	var backend Provider
	bucket := cfg.Storage.Bucket

	if cfg.Storage.Provider == "s3" {
		s3Config := &aws.Config{
			Credentials:      credentials.NewStaticCredentials(cfg.Storage.KeyID, cfg.Storage.AppKey, ""),
			Endpoint:         aws.String(cfg.Storage.Endpoint),
			Region:           aws.String(cfg.Storage.Region),
			S3ForcePathStyle: aws.Bool(true),
		}
		sess := session.Must(session.NewSession(s3Config))
		backend = NewS3Provider(sess)
	} else {
		backend = NewLocalProvider(cfg.Storage.LocalDir)
		// Local layout mirrors the bucket structure so switching
		// providers later doesn't move any keys.
		if bucket == "" {
			bucket = "archive"
		}
	}

	return &Client{backend: backend, bucket: bucket}
}

// NewWithProvider wires an explicit backend; handy for tests.
func NewWithProvider(backend Provider, bucket string) *Client {
	return &Client{backend: backend, bucket: bucket}
}

func (c *Client) UploadExport(key string, body io.ReadSeeker, contentType string) error {
	return c.backend.Put(c.bucket, key, body, contentType)
}

func (c *Client) ListExports() ([]string, error) {
	return c.backend.List(c.bucket, "exports/")
}

func (c *Client) DownloadExport(key string) (*FileObject, error) {
	return c.backend.Get(c.bucket, key)
}

func (c *Client) DeleteExport(key string) error {
	return c.backend.Delete(c.bucket, key)
}
