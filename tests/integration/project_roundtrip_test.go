package integration

import (
	"context"
	"fmt"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomify/roomify-backend/internal/assets"
	"github.com/roomify/roomify-backend/internal/bootstrap"
	"github.com/roomify/roomify-backend/internal/hosting"
	"github.com/roomify/roomify-backend/internal/projects"
	"github.com/roomify/roomify-backend/internal/projects/domain"
	"github.com/roomify/roomify-backend/internal/projects/service"
	"github.com/roomify/roomify-backend/internal/store"
)

const testPublicBase = "https://assets.example.com"

type fakeVerifier struct{}

func (fakeVerifier) VerifyIDToken(ctx context.Context, token string) (*fbauth.Token, error) {
	if uid, ok := strings.CutPrefix(token, "uid:"); ok && uid != "" {
		return &fbauth.Token{UID: uid}, nil
	}
	return nil, fmt.Errorf("invalid token")
}

type memProvider struct {
	files map[string][]byte
}

func (m *memProvider) CreateNamespace(ctx context.Context, handle, rootPath string) (*hosting.Namespace, error) {
	return &hosting.Namespace{Handle: handle}, nil
}

func (m *memProvider) MkdirAll(ctx context.Context, ns *hosting.Namespace, dir string) error {
	return nil
}

func (m *memProvider) Write(ctx context.Context, ns *hosting.Namespace, path string, blob []byte, contentType string) error {
	if m.files == nil {
		m.files = map[string][]byte{}
	}
	m.files[ns.Handle+"/"+path] = blob
	return nil
}

func (m *memProvider) PublicURL(ns *hosting.Namespace, path string) string {
	return fmt.Sprintf("%s/%s/%s", testPublicBase, ns.Handle, path)
}

func (m *memProvider) IsHostedURL(rawURL string) bool {
	return strings.HasPrefix(rawURL, testPublicBase+"/")
}

// setupStack wires the full system the way cmd/api and cmd/worker do,
// with miniredis standing in for Redis and an in-memory hosting provider
// standing in for S3.
func setupStack(t *testing.T) *service.ProjectService {
	gin.SetMode(gin.TestMode)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "roomify-store",
		Version:     "test",
		Redis:       client,
		Verifier:    fakeVerifier{},
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	kv := store.NewRedisKV(client)
	provider := &memProvider{}

	storeClient := projects.NewStoreClient(srv.URL, func(ctx context.Context) (string, error) {
		return "uid:user-1", nil
	})

	return service.NewProjectService(
		storeClient,
		hosting.NewProvisioner(kv, provider),
		assets.NewMaterializer(provider),
		"user-1",
	)
}

func TestProjectRoundTrip(t *testing.T) {
	svc := setupStack(t)
	ctx := context.Background()

	saved, err := svc.CreateOrUpdate(ctx, &domain.ProjectRecord{
		ID:          "p1",
		Name:        "Residence p1",
		SourceImage: "data:image/png;base64,AAAA",
	}, domain.VisibilityPrivate)
	require.NoError(t, err)
	require.NotNil(t, saved)

	got, err := svc.Get(ctx, "p1")
	require.NoError(t, err)

	pattern := regexp.MustCompile(`^https://assets\.example\.com/roomify-[0-9a-f]+-[0-9a-f]+/projects/p1/source\.png$`)
	assert.Regexp(t, pattern, got.SourceImage)
	assert.False(t, strings.HasPrefix(got.SourceImage, "data:"), "persisted source must be durable")
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestRoundTrip_SecondSaveReusesNamespaceAndAssets(t *testing.T) {
	svc := setupStack(t)
	ctx := context.Background()

	first, err := svc.CreateOrUpdate(ctx, &domain.ProjectRecord{
		ID:          "p1",
		SourceImage: "data:image/png;base64,AAAA",
	}, "")
	require.NoError(t, err)

	second, err := svc.CreateOrUpdate(ctx, first, "")
	require.NoError(t, err)
	assert.Equal(t, first.SourceImage, second.SourceImage, "re-saving keeps the same hosted URL")

	records, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
