package main

import (
	"context"
	"log"

	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/robfig/cron/v3"

	"github.com/roomify/roomify-backend/config"
	"github.com/roomify/roomify-backend/internal/assets"
	"github.com/roomify/roomify-backend/internal/bootstrap"
	"github.com/roomify/roomify-backend/internal/hosting"
	"github.com/roomify/roomify-backend/internal/projects"
	"github.com/roomify/roomify-backend/internal/projects/service"
	"github.com/roomify/roomify-backend/internal/render"
	"github.com/roomify/roomify-backend/internal/store"
)

// The render worker sweeps the operator's projects on a schedule,
// generates a rendered view for any project that has a source image but
// no rendered one yet, and re-saves the project through the persistence
// facade so the render ends up hosted next to its source.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Worker.OwnerID == "" {
		log.Fatal("WORKER_OWNER_ID is required")
	}
	if cfg.Store.BaseURL == "" {
		log.Fatal("STORE_BASE_URL is required")
	}

	ctx := context.Background()

	redisClient, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()

	awsConfig, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(cfg.Hosting.Region))
	if err != nil {
		log.Fatalf("aws config: %v", err)
	}
	provider := hosting.NewS3Provider(s3.NewFromConfig(awsConfig), cfg.Hosting.Bucket, cfg.Hosting.PublicBase())

	kv := store.NewRedisKV(redisClient)
	provisioner := hosting.NewProvisioner(kv, provider)
	materializer := assets.NewMaterializer(provider)

	storeClient := projects.NewStoreClient(cfg.Store.BaseURL, func(ctx context.Context) (string, error) {
		return cfg.Worker.APIToken, nil
	})
	svc := service.NewProjectService(storeClient, provisioner, materializer, cfg.Worker.OwnerID)
	renderer := render.NewClient(cfg.Render.APIURL, cfg.Render.Model, cfg.Render.RPS)

	sweeper := &Sweeper{projects: svc, renderer: renderer}

	// One pass at startup so a restart never delays pending renders by a
	// full schedule interval.
	sweeper.Run(ctx)

	c := cron.New()
	if _, err := c.AddFunc(cfg.Worker.SweepSchedule, func() { sweeper.Run(context.Background()) }); err != nil {
		log.Fatalf("cron: %v", err)
	}

	log.Printf("render worker running, schedule=%s owner_id=%s", cfg.Worker.SweepSchedule, cfg.Worker.OwnerID)
	c.Run()
}
