package assets

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/roomify/roomify-backend/internal/hosting"
)

// Label selects the normalization rules and destination file name for an
// asset inside its project directory.
type Label string

const (
	LabelSource   Label = "source"
	LabelRendered Label = "rendered"
)

const fetchTimeout = 30 * time.Second

// Materializer turns ephemeral image references (data URLs, third-party
// URLs) into durable assets under a hosting namespace. Already-hosted
// references are returned as-is without touching the provider.
type Materializer struct {
	provider hosting.Provider
	client   *http.Client
}

func NewMaterializer(provider hosting.Provider) *Materializer {
	return &Materializer{
		provider: provider,
		client:   &http.Client{Timeout: fetchTimeout},
	}
}

// IsHostedURL reports whether imageRef is already durable, i.e. points
// into a recognized hosting namespace.
func (m *Materializer) IsHostedURL(imageRef string) bool {
	return m.provider.IsHostedURL(imageRef)
}

// Materialize hosts imageRef under projects/{projectID}/{label}.{ext} and
// returns the durable asset. A nil result means the asset could not be made
// durable this call; the failure is logged, never returned.
func (m *Materializer) Materialize(ctx context.Context, ns *hosting.Namespace, imageRef, projectID string, label Label) *hosting.Asset {
	if ns == nil || imageRef == "" {
		return nil
	}
	if m.provider.IsHostedURL(imageRef) {
		return &hosting.Asset{URL: imageRef}
	}

	asset, err := m.materialize(ctx, ns, imageRef, projectID, label)
	if err != nil {
		log.Printf("[warn] operation=materialize project_id=%s label=%s error=%v", projectID, label, err)
		return nil
	}
	return asset
}

func (m *Materializer) materialize(ctx context.Context, ns *hosting.Namespace, imageRef, projectID string, label Label) (*hosting.Asset, error) {
	blob, err := m.resolve(ctx, imageRef, label)
	if err != nil {
		return nil, err
	}

	ext := imageExtension(blob.contentType, imageRef)
	dir := "projects/" + projectID
	filePath := fmt.Sprintf("%s/%s.%s", dir, label, ext)

	if err := m.provider.MkdirAll(ctx, ns, dir); err != nil {
		return nil, fmt.Errorf("mkdir %q: %w", dir, err)
	}
	if err := m.provider.Write(ctx, ns, filePath, blob.data, blob.contentType); err != nil {
		return nil, fmt.Errorf("write %q: %w", filePath, err)
	}

	hostedURL := m.provider.PublicURL(ns, filePath)
	if hostedURL == "" {
		return nil, fmt.Errorf("no public url for %q", filePath)
	}

	return &hosting.Asset{URL: hostedURL}, nil
}

// resolve produces the bytes to host. Rendered assets are re-encoded as
// PNG so generated images always land with a predictable content type;
// source assets keep their original encoding.
func (m *Materializer) resolve(ctx context.Context, imageRef string, label Label) (*resolvedBlob, error) {
	var blob *resolvedBlob
	var err error
	if strings.HasPrefix(imageRef, "data:") {
		blob, err = decodeDataURL(imageRef)
	} else {
		blob, err = fetchBlob(ctx, m.client, imageRef)
	}
	if err != nil {
		return nil, err
	}

	if label == LabelRendered {
		normalized, err := normalizePNG(blob.data)
		if err != nil {
			return nil, err
		}
		return &resolvedBlob{data: normalized, contentType: "image/png"}, nil
	}

	return blob, nil
}
