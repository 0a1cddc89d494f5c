package aws

import (
	"context"
	"fmt"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PresignedUpload is a URL a browser can PUT a file to, plus the headers it must send.
type PresignedUpload struct {
	URL       string            `json:"url"`
	Key       string            `json:"key"`
	Headers   map[string]string `json:"headers"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// Presigner issues upload URLs for one bucket.
type Presigner struct {
	presign *s3.PresignClient
	bucket  string
	expiry  time.Duration
}

// NewPresigner builds a presigner. Path-style addressing is used when a
// custom endpoint is configured.
func NewPresigner(cfg sdkaws.Config, bucket string, expiry time.Duration) *Presigner {
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = CustomEndpoint() != ""
	})
	return &Presigner{
		presign: s3.NewPresignClient(client),
		bucket:  bucket,
		expiry:  expiry,
	}
}

// PresignPut returns a presigned PUT URL for key.
func (p *Presigner) PresignPut(ctx context.Context, key, contentType string) (*PresignedUpload, error) {
	input := &s3.PutObjectInput{
		Bucket: sdkaws.String(p.bucket),
		Key:    sdkaws.String(key),
	}
	if contentType != "" {
		input.ContentType = sdkaws.String(contentType)
	}

	req, err := p.presign.PresignPutObject(ctx, input, s3.WithPresignExpires(p.expiry))
	if err != nil {
		return nil, fmt.Errorf("failed to presign put object: %w", err)
	}

	headers := make(map[string]string, len(req.SignedHeader))
	for k, v := range req.SignedHeader {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}

	return &PresignedUpload{
		URL:       req.URL,
		Key:       key,
		Headers:   headers,
		ExpiresAt: time.Now().Add(p.expiry),
	}, nil
}
