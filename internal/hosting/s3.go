package hosting

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// namespaceMarker is the object written when a namespace is provisioned.
// Its presence is how handle collisions are detected.
const namespaceMarker = ".namespace"

// S3Provider hosts namespaces as top-level key prefixes in a single public
// bucket. Public URLs resolve under publicBase/{handle}/{path}.
type S3Provider struct {
	client     *s3.Client
	bucket     string
	publicBase string
}

func NewS3Provider(client *s3.Client, bucket, publicBase string) *S3Provider {
	return &S3Provider{
		client:     client,
		bucket:     bucket,
		publicBase: strings.TrimSuffix(publicBase, "/"),
	}
}

func (p *S3Provider) CreateNamespace(ctx context.Context, handle, rootPath string) (*Namespace, error) {
	marker := handle + "/" + namespaceMarker

	_, err := p.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(marker),
	})
	if err == nil {
		return nil, fmt.Errorf("handle %q is already taken", handle)
	}
	var notFound *types.NotFound
	if !errors.As(err, &notFound) {
		return nil, fmt.Errorf("failed to check handle %q: %w", handle, err)
	}

	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(marker),
		Body:        strings.NewReader(rootPath),
		ContentType: aws.String("text/plain"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create namespace %q: %w", handle, err)
	}

	return &Namespace{Handle: handle}, nil
}

// MkdirAll is a no-op: the bucket keyspace is flat, so any "directory"
// exists as soon as a key is written under it.
func (p *S3Provider) MkdirAll(ctx context.Context, ns *Namespace, dir string) error {
	return nil
}

func (p *S3Provider) Write(ctx context.Context, ns *Namespace, path string, blob []byte, contentType string) error {
	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(ns.Handle + "/" + path),
		Body:        bytes.NewReader(blob),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	return nil
}

func (p *S3Provider) PublicURL(ns *Namespace, path string) string {
	return fmt.Sprintf("%s/%s/%s", p.publicBase, ns.Handle, path)
}

func (p *S3Provider) IsHostedURL(rawURL string) bool {
	return p.publicBase != "" && strings.HasPrefix(rawURL, p.publicBase+"/")
}
