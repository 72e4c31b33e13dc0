package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sitegen_server/internal/blueprint"
	"sitegen_server/internal/cache"
	"sitegen_server/internal/logger"
	"sitegen_server/internal/pipeline"
	"sitegen_server/internal/types"
)

// Generator runs one generation for a blueprint.
type Generator interface {
	Generate(ctx context.Context, bp *types.Blueprint) (*pipeline.Run, error)
}

// CacheAdmin is the cache surface exposed over HTTP.
type CacheAdmin interface {
	List() []types.CachedArtifact
	Invalidate(ctx context.Context, key string) (bool, error)
}

// ProjectWriter persists a generated tree. Optional.
type ProjectWriter interface {
	Write(ctx context.Context, projectID string, files types.GenerationResult) (string, error)
}

// APIHandler holds dependencies for API endpoints.
type APIHandler struct {
	generator Generator
	cache     CacheAdmin
	writer    ProjectWriter
	logger    *zap.Logger
}

// NewAPIHandler initializes a new API handler with its dependencies.
// writer may be nil, in which case generated files are only returned.
func NewAPIHandler(gen Generator, store CacheAdmin, writer ProjectWriter, log *zap.Logger) *APIHandler {
	return &APIHandler{
		generator: gen,
		cache:     store,
		writer:    writer,
		logger:    logger.OrNop(log).Named("api"),
	}
}

// --- Structs for API Requests/Responses ---

type GenerateResponse struct {
	ProjectID string                 `json:"projectId"`
	Files     types.GenerationResult `json:"files"`
	Warnings  []types.Warning        `json:"warnings"`
	Calls     int                    `json:"calls"`
	OutputDir string                 `json:"outputDir,omitempty"`
}

type CacheEntry struct {
	Key     string `json:"key"`
	Name    string `json:"name"`
	Style   string `json:"style"`
	Tech    string `json:"tech"`
	Version int    `json:"version"`
	Size    int    `json:"size"`
}

type CacheListResponse struct {
	Entries []CacheEntry `json:"entries"`
}

// --- API Handlers ---

// POST /project/generate
func (h *APIHandler) GenerateSite(c *gin.Context) {
	var bp types.Blueprint
	if err := c.ShouldBindJSON(&bp); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	h.logger.Info("received generation request",
		zap.String("name", bp.Metadata.Name),
		zap.String("domain", string(bp.Metadata.Domain)))

	run, err := h.generator.Generate(c.Request.Context(), &bp)
	if err != nil {
		if errors.Is(err, blueprint.ErrInvalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate site"})
		return
	}

	resp := GenerateResponse{
		ProjectID: run.ID,
		Files:     run.Files,
		Warnings:  run.Warnings,
		Calls:     run.Calls,
	}
	if resp.Warnings == nil {
		resp.Warnings = []types.Warning{}
	}

	if h.writer != nil {
		dir, err := h.writer.Write(c.Request.Context(), run.ID, run.Files)
		if err != nil {
			// The tree is still returned in the response body.
			h.logger.Warn("failed to write project to disk", zap.String("project", run.ID), zap.Error(err))
		} else {
			resp.OutputDir = dir
		}
	}

	h.logger.Info("site generation finished",
		zap.String("project", run.ID),
		zap.Int("files", len(run.Files)),
		zap.Int("warnings", len(run.Warnings)))
	c.JSON(http.StatusCreated, resp)
}

// GET /cache
func (h *APIHandler) ListCache(c *gin.Context) {
	artifacts := h.cache.List()
	entries := make([]CacheEntry, 0, len(artifacts))
	for _, a := range artifacts {
		entries = append(entries, CacheEntry{
			Key:     cache.Key(a.Name, a.Style, a.Tech),
			Name:    a.Name,
			Style:   a.Style,
			Tech:    a.Tech,
			Version: a.Version,
			Size:    len(a.Code),
		})
	}
	c.JSON(http.StatusOK, CacheListResponse{Entries: entries})
}

// DELETE /cache/:key
func (h *APIHandler) InvalidateCache(c *gin.Context) {
	key := c.Param("key")
	removed, err := h.cache.Invalidate(c.Request.Context(), key)
	if err != nil {
		h.logger.Error("cache invalidation failed", zap.String("key", key), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to invalidate cache entry"})
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cache entry not found"})
		return
	}
	h.logger.Info("cache entry invalidated", zap.String("key", key))
	c.Status(http.StatusNoContent)
}
