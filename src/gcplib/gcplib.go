package gcplib

import (
	"context"
	"io"

	"cloud.google.com/go/storage"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

// Client ... reads submissions out of Cloud Storage
type Client struct {
	client *storage.Client
}

// NewClient uses the application default credentials when credentialFilePath is empty.
func NewClient(ctx context.Context, credentialFilePath string) (*Client, error) {
	var opts []option.ClientOption
	if credentialFilePath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialFilePath))
	}

	c, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create storage client")
	}
	return &Client{client: c}, nil
}

func (c *Client) Fetch(ctx context.Context, bucket, object string) (io.ReadCloser, error) {
	reader, err := c.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read gs://%s/%s", bucket, object)
	}
	return reader, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
