// Package s3store keeps the calendar snapshot as a single S3 object.
package s3store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/Tiliavir/trivial-calendar/internal/model"
	"github.com/Tiliavir/trivial-calendar/internal/store"
)

// API is the subset of the S3 client used here.
type API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	CopyObject(ctx context.Context, in *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
}

// Options selects the bucket, object and AWS credentials.
type Options struct {
	Bucket  string
	Key     string
	Region  string
	Profile string // shared config profile, mostly for local use
}

// Store persists snapshots to s3://Bucket/Key.
type Store struct {
	client API
	bucket string
	key    string
}

// New wraps an existing client.
func New(client API, bucket, key string) *Store {
	return &Store{client: client, bucket: bucket, key: key}
}

// NewFromConfig loads the default AWS configuration and builds a Store.
func NewFromConfig(ctx context.Context, opts Options) (*Store, error) {
	if opts.Bucket == "" || opts.Key == "" {
		return nil, errors.New("s3 storage requires bucket and key")
	}
	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	if opts.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(opts.Profile))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}
	return New(s3.NewFromConfig(awsCfg), opts.Bucket, opts.Key), nil
}

// Load fetches and decodes the snapshot object. A missing object is an
// empty snapshot; an undecodable one is copied to <key>.corrupt.
func (s *Store) Load(ctx context.Context) (model.Snapshot, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		if isNotFound(err) {
			return model.Snapshot{}, nil
		}
		return nil, fmt.Errorf("s3 get s3://%s/%s: %w", s.bucket, s.key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read s3://%s/%s: %w", s.bucket, s.key, err)
	}

	snap, err := store.Decode(data)
	if err != nil {
		backupKey := s.key + ".corrupt"
		_, copyErr := s.client.CopyObject(ctx, &s3.CopyObjectInput{
			Bucket:     aws.String(s.bucket),
			Key:        aws.String(backupKey),
			CopySource: aws.String(s.bucket + "/" + url.PathEscape(s.key)),
		})
		if copyErr != nil {
			return model.Snapshot{}, fmt.Errorf("s3://%s/%s (backup failed: %v): %w", s.bucket, s.key, copyErr, err)
		}
		return model.Snapshot{}, fmt.Errorf("s3://%s/%s (backed up to %s): %w", s.bucket, s.key, backupKey, err)
	}
	return snap, nil
}

// Persist overwrites the snapshot object.
func (s *Store) Persist(ctx context.Context, snap model.Snapshot) error {
	data, err := store.Encode(snap)
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3 put s3://%s/%s: %w", s.bucket, s.key, err)
	}
	return nil
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
