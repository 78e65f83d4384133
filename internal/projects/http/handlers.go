package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/roomify/roomify-backend/internal/auth"
	"github.com/roomify/roomify-backend/internal/projects/domain"
	"github.com/roomify/roomify-backend/internal/projects/repository"
)

// Handler serves the project store API over the owner-scoped repository.
type Handler struct {
	repo *repository.Repo
}

func NewHandler(repo *repository.Repo) *Handler {
	return &Handler{repo: repo}
}

type saveReq struct {
	Project    *domain.ProjectRecord `json:"project"`
	Visibility string                `json:"visibility"`
}

func (h *Handler) save(c *gin.Context) {
	userID := auth.UserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication failed"})
		return
	}

	var req saveReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Project == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Project ID and source image are required"})
		return
	}

	project := req.Project
	if project.ID == "" || project.SourceImage == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Project ID and source image are required"})
		return
	}

	// updatedAt is server-authoritative.
	project.UpdatedAt = time.Now().UTC()

	if err := h.repo.Save(c.Request.Context(), userID, project); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save project", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"saved": true, "id": project.ID, "project": project})
}

func (h *Handler) get(c *gin.Context) {
	userID := auth.UserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication failed"})
		return
	}

	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Project ID is required"})
		return
	}

	project, err := h.repo.Get(c.Request.Context(), userID, id)
	if errors.Is(err, domain.ErrProjectNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get project", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project})
}

// list returns every project in the caller's store. Records keep their
// stored visibility; listings are not forced public.
func (h *Handler) list(c *gin.Context) {
	userID := auth.UserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication failed"})
		return
	}

	projects, err := h.repo.List(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list projects", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects})
}
