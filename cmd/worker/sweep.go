package main

import (
	"context"
	"log"

	"github.com/roomify/roomify-backend/internal/projects/domain"
	"github.com/roomify/roomify-backend/internal/projects/service"
	"github.com/roomify/roomify-backend/internal/render"
)

// Sweeper renders pending projects. A project is pending when it has a
// source image and no rendered image yet.
type Sweeper struct {
	projects *service.ProjectService
	renderer *render.Client
}

func (s *Sweeper) Run(ctx context.Context) {
	items, err := s.projects.List(ctx)
	if err != nil {
		log.Printf("[warn] operation=sweep error=%v", err)
		return
	}

	pending := 0
	for _, p := range items {
		if p.SourceImage == "" || p.RenderedImage != "" {
			continue
		}
		pending++

		rendered, err := s.renderer.Render(ctx, p.SourceImage)
		if err != nil {
			// A failed render never blocks the rest of the sweep; the
			// project is picked up again next pass.
			log.Printf("[warn] operation=render project_id=%s error=%v", p.ID, err)
			continue
		}

		p.RenderedImage = rendered
		if _, err := s.projects.CreateOrUpdate(ctx, p, domain.VisibilityPrivate); err != nil {
			log.Printf("[warn] operation=save_render project_id=%s error=%v", p.ID, err)
			continue
		}

		log.Printf("[info] operation=render project_id=%s message=rendered and saved", p.ID)
	}

	log.Printf("[info] operation=sweep message=done projects=%d pending=%d", len(items), pending)
}
