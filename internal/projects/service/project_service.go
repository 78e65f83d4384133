package service

import (
	"context"
	"fmt"
	"log"

	"github.com/roomify/roomify-backend/internal/assets"
	"github.com/roomify/roomify-backend/internal/hosting"
	"github.com/roomify/roomify-backend/internal/projects"
	"github.com/roomify/roomify-backend/internal/projects/domain"
)

// ProjectService is the persistence facade for one authenticated owner.
// It makes both project images durable, resolves the canonical record and
// submits it to the remote store. The store is always reached over HTTP,
// never in-process.
type ProjectService struct {
	store        *projects.StoreClient
	provisioner  *hosting.Provisioner
	materializer *assets.Materializer
	ownerID      string
}

func NewProjectService(store *projects.StoreClient, provisioner *hosting.Provisioner, materializer *assets.Materializer, ownerID string) *ProjectService {
	return &ProjectService{
		store:        store,
		provisioner:  provisioner,
		materializer: materializer,
		ownerID:      ownerID,
	}
}

// CreateOrUpdate saves the record, hosting its images first. It returns the
// server's echo of the saved record; repeated calls with already-durable
// images are cheap because materialization dedups on the URL shape.
//
// ErrStoreUnavailable means saving is disabled (no store configured);
// ErrSourceNotHostable means the source image could not be made durable
// and nothing was persisted.
func (s *ProjectService) CreateOrUpdate(ctx context.Context, record *domain.ProjectRecord, visibility string) (*domain.ProjectRecord, error) {
	if !s.store.Configured() {
		return nil, domain.ErrStoreUnavailable
	}
	if record == nil || record.ID == "" {
		return nil, fmt.Errorf("project id is required")
	}

	ns, err := s.provisioner.GetOrCreate(ctx, s.ownerID)
	if err != nil {
		log.Printf("[warn] operation=provision_namespace owner_id=%s error=%v", s.ownerID, err)
		ns = nil
	}

	hostedSource := s.materializer.Materialize(ctx, ns, record.SourceImage, record.ID, assets.LabelSource)

	var hostedRendered *hosting.Asset
	if record.RenderedImage != "" {
		hostedRendered = s.materializer.Materialize(ctx, ns, record.RenderedImage, record.ID, assets.LabelRendered)
	}

	// A record is never saved with a non-durable source image.
	sourceURL := ""
	switch {
	case hostedSource != nil:
		sourceURL = hostedSource.URL
	case s.materializer.IsHostedURL(record.SourceImage):
		sourceURL = record.SourceImage
	}
	if sourceURL == "" {
		return nil, domain.ErrSourceNotHostable
	}

	// Renders are optional at save time: an unhostable rendered image
	// resolves to absent, not to a failure.
	renderedURL := ""
	switch {
	case hostedRendered != nil:
		renderedURL = hostedRendered.URL
	case record.RenderedImage != "" && s.materializer.IsHostedURL(record.RenderedImage):
		renderedURL = record.RenderedImage
	}

	payload := *record
	payload.SourceImage = sourceURL
	payload.RenderedImage = renderedURL
	payload.RenderedPath = ""
	if payload.OwnerID == "" {
		payload.OwnerID = s.ownerID
	}
	if payload.Name == "" {
		payload.Name = domain.DefaultName(payload.ID)
	}
	if visibility == "" {
		visibility = domain.VisibilityPrivate
	}
	if visibility == domain.VisibilityPublic {
		payload.IsPublic = true
	}

	saved, err := s.store.Save(ctx, &payload, visibility)
	if err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}

	return saved, nil
}

// Get rehydrates one record from the remote store.
func (s *ProjectService) Get(ctx context.Context, id string) (*domain.ProjectRecord, error) {
	if !s.store.Configured() {
		return nil, domain.ErrStoreUnavailable
	}
	return s.store.Get(ctx, id)
}

// List rehydrates all of the owner's records from the remote store.
func (s *ProjectService) List(ctx context.Context) ([]*domain.ProjectRecord, error) {
	if !s.store.Configured() {
		return nil, domain.ErrStoreUnavailable
	}
	return s.store.List(ctx)
}
