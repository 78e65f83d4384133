package projects

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomify/roomify-backend/internal/projects/domain"
)

func TestStoreClient_Unconfigured(t *testing.T) {
	c := NewStoreClient("", nil)
	assert.False(t, c.Configured())

	_, err := c.Save(context.Background(), &domain.ProjectRecord{ID: "p1"}, "private")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	_, err = c.Get(context.Background(), "p1")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	_, err = c.List(context.Background())
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestStoreClient_SaveSendsTokenAndBody(t *testing.T) {
	var gotAuth string
	var gotReq saveRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_ = json.NewEncoder(w).Encode(saveResponse{
			Saved:   true,
			ID:      gotReq.Project.ID,
			Project: gotReq.Project,
		})
	}))
	defer srv.Close()

	c := NewStoreClient(srv.URL, func(ctx context.Context) (string, error) {
		return "token-123", nil
	})

	saved, err := c.Save(context.Background(), &domain.ProjectRecord{ID: "p1", SourceImage: "https://a/1.png"}, "private")
	require.NoError(t, err)
	assert.Equal(t, "p1", saved.ID)
	assert.Equal(t, "Bearer token-123", gotAuth)
	assert.Equal(t, "private", gotReq.Visibility)
}

func TestStoreClient_GetMapsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Project not found"})
	}))
	defer srv.Close()

	c := NewStoreClient(srv.URL, nil)

	_, err := c.Get(context.Background(), "unknown")
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestStoreClient_SurfacesRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Authentication failed"})
	}))
	defer srv.Close()

	c := NewStoreClient(srv.URL, nil)

	_, err := c.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Authentication failed")
	assert.Contains(t, err.Error(), "401")
}
