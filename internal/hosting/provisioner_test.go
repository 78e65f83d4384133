package hosting

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomify/roomify-backend/internal/store"
)

type fakeProvider struct {
	createCalls int
	failCreate  bool
}

func (f *fakeProvider) CreateNamespace(ctx context.Context, handle, rootPath string) (*Namespace, error) {
	f.createCalls++
	if f.failCreate {
		return nil, fmt.Errorf("handle %q is already taken", handle)
	}
	return &Namespace{Handle: handle}, nil
}

func (f *fakeProvider) MkdirAll(ctx context.Context, ns *Namespace, dir string) error {
	return nil
}

func (f *fakeProvider) Write(ctx context.Context, ns *Namespace, path string, blob []byte, contentType string) error {
	return nil
}

func (f *fakeProvider) PublicURL(ns *Namespace, path string) string {
	return fmt.Sprintf("https://%s.example.site/%s", ns.Handle, path)
}

func (f *fakeProvider) IsHostedURL(rawURL string) bool {
	return false
}

func setupTestKV(t *testing.T) store.KV {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return store.NewRedisKV(client)
}

func TestProvisioner_CreatesOnceAndCaches(t *testing.T) {
	kv := setupTestKV(t)
	provider := &fakeProvider{}
	p := NewProvisioner(kv, provider)
	ctx := context.Background()

	first, err := p.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.NotEmpty(t, first.Handle)
	assert.Equal(t, 1, provider.createCalls)

	second, err := p.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, first.Handle, second.Handle)
	assert.Equal(t, 1, provider.createCalls, "cached namespace must not be re-provisioned")
}

func TestProvisioner_SeparateOwnersGetSeparateNamespaces(t *testing.T) {
	kv := setupTestKV(t)
	provider := &fakeProvider{}
	p := NewProvisioner(kv, provider)
	ctx := context.Background()

	a, err := p.GetOrCreate(ctx, "user-a")
	require.NoError(t, err)
	b, err := p.GetOrCreate(ctx, "user-b")
	require.NoError(t, err)

	assert.NotEqual(t, a.Handle, b.Handle)
	assert.Equal(t, 2, provider.createCalls)
}

func TestProvisioner_ProviderFailure(t *testing.T) {
	kv := setupTestKV(t)
	provider := &fakeProvider{failCreate: true}
	p := NewProvisioner(kv, provider)

	ns, err := p.GetOrCreate(context.Background(), "user-1")
	assert.Error(t, err)
	assert.Nil(t, ns)

	// Nothing gets cached on failure, so the next call retries.
	provider.failCreate = false
	ns, err = p.GetOrCreate(context.Background(), "user-1")
	require.NoError(t, err)
	assert.NotNil(t, ns)
}

func TestProvisioner_DamagedCacheSlotIsReprovisioned(t *testing.T) {
	kv := setupTestKV(t)
	provider := &fakeProvider{}
	p := NewProvisioner(kv, provider)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "user-1", hostingConfigKey, []byte(`{"subdomain":""}`)))

	ns, err := p.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	assert.NotEmpty(t, ns.Handle)
	assert.Equal(t, 1, provider.createCalls)
}
