package mapview

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"github.com/minio/minio-go/v7"
	"io"
	"path"
)

// Uploader is the part of *minio.Client Publish needs.
type Uploader interface {
	PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// Publish uploads page as prefix/index.html next to its features as
// prefix/features.geojson, and returns the object names written.
func Publish(ctx context.Context, up Uploader, bucket, prefix string, page Page) ([]string, error) {
	var html bytes.Buffer
	if err := Render(&html, page); err != nil {
		return nil, err
	}

	data := page.data()
	features, err := json.Marshal(data.Features)
	if err != nil {
		return nil, fmt.Errorf("marshal features: %w", err)
	}

	objects := []struct {
		name        string
		contentType string
		body        []byte
	}{
		{path.Join(prefix, "index.html"), "text/html; charset=utf-8", html.Bytes()},
		{path.Join(prefix, "features.geojson"), "application/geo+json", features},
	}

	var written []string
	for _, o := range objects {
		_, err := up.PutObject(ctx, bucket, o.name, bytes.NewReader(o.body), int64(len(o.body)), minio.PutObjectOptions{
			ContentType:  o.contentType,
			CacheControl: "public, max-age=300",
		})
		if err != nil {
			return written, fmt.Errorf("upload %s/%s: %w", bucket, o.name, err)
		}
		written = append(written, o.name)
	}
	return written, nil
}
