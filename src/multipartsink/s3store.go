package multipartsink

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3ObjectStore creates multipart uploads against a real (or
// S3-compatible) bucket via aws-sdk-go-v2.
type S3ObjectStore struct {
	Client *s3.Client
	Bucket string
}

// NewS3ObjectStore wraps an already-configured s3.Client for a bucket.
func NewS3ObjectStore(client *s3.Client, bucket string) *S3ObjectStore {
	return &S3ObjectStore{Client: client, Bucket: bucket}
}

func (o *S3ObjectStore) Create(ctx context.Context, key, contentType string) (UploadHandle, error) {
	out, err := o.Client.CreateMultipartUpload(ctx, &s3.CreateMultipartUploadInput{
		Bucket:      aws.String(o.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("multipartsink: create upload for %q: %w", key, err)
	}
	return &s3Upload{
		client:   o.Client,
		bucket:   o.Bucket,
		key:      key,
		uploadID: aws.ToString(out.UploadId),
	}, nil
}

type s3Upload struct {
	client   *s3.Client
	bucket   string
	key      string
	uploadID string
}

func (u *s3Upload) UploadPart(ctx context.Context, partNumber int, data []byte) (PartReceipt, error) {
	out, err := u.client.UploadPart(ctx, &s3.UploadPartInput{
		Bucket:     aws.String(u.bucket),
		Key:        aws.String(u.key),
		UploadId:   aws.String(u.uploadID),
		PartNumber: aws.Int32(int32(partNumber)),
		Body:       bytes.NewReader(data),
	})
	if err != nil {
		return PartReceipt{}, fmt.Errorf("multipartsink: upload part %d for %q: %w", partNumber, u.key, err)
	}
	return PartReceipt{PartNumber: partNumber, ETag: aws.ToString(out.ETag)}, nil
}

func (u *s3Upload) Complete(ctx context.Context, parts []PartReceipt) error {
	completed := make([]types.CompletedPart, len(parts))
	for i, p := range parts {
		completed[i] = types.CompletedPart{
			PartNumber: aws.Int32(int32(p.PartNumber)),
			ETag:       aws.String(p.ETag),
		}
	}
	_, err := u.client.CompleteMultipartUpload(ctx, &s3.CompleteMultipartUploadInput{
		Bucket:   aws.String(u.bucket),
		Key:      aws.String(u.key),
		UploadId: aws.String(u.uploadID),
		MultipartUpload: &types.CompletedMultipartUpload{
			Parts: completed,
		},
	})
	if err != nil {
		return fmt.Errorf("multipartsink: complete upload for %q: %w", u.key, err)
	}
	return nil
}

func (u *s3Upload) Abort(ctx context.Context) error {
	_, err := u.client.AbortMultipartUpload(ctx, &s3.AbortMultipartUploadInput{
		Bucket:   aws.String(u.bucket),
		Key:      aws.String(u.key),
		UploadId: aws.String(u.uploadID),
	})
	if err != nil {
		return fmt.Errorf("multipartsink: abort upload for %q: %w", u.key, err)
	}
	return nil
}
