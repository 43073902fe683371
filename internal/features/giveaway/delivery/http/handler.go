// Package http exposes a read-only status API over the live registry and the
// closed-giveaway archive, used by dashboards and for operational checks. All
// mutation happens through the chat platform, never through HTTP.
package http

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "giveaway-bot/internal/common/errors"
	"giveaway-bot/internal/common/logger"
	"giveaway-bot/internal/features/giveaway/models"
	"giveaway-bot/internal/features/giveaway/registry"
)

// ClosedReader is the read side of the closed-giveaway archive. Nil when the
// bot runs without redis; the archive routes then report empty results.
type ClosedReader interface {
	GetClosed(ctx context.Context, id string) (*models.ClosedGiveaway, error)
	ListClosedIDs(ctx context.Context) ([]string, error)
}

type GiveawayHandler struct {
	registry registry.Registry
	archive  ClosedReader
}

func NewGiveawayHandler(reg registry.Registry, archive ClosedReader) *GiveawayHandler {
	return &GiveawayHandler{registry: reg, archive: archive}
}

func (h *GiveawayHandler) RegisterRoutes(router *gin.RouterGroup) {
	giveaways := router.Group("/giveaways")
	{
		giveaways.GET("", h.list)
		giveaways.GET("/:id", h.getByID)
	}
	archive := router.Group("/archive")
	{
		archive.GET("", h.listClosed)
		archive.GET("/:id", h.getClosed)
	}
}

// GiveawayResponse is the wire form of an active giveaway. Entry identities
// stay private; only the count is exposed.
type GiveawayResponse struct {
	ID           string    `json:"id"`
	ChannelID    string    `json:"channel_id"`
	Prize        string    `json:"prize"`
	WinnersCount int       `json:"winners_count"`
	RequiredRole string    `json:"required_role,omitempty"`
	HostID       string    `json:"host_id"`
	EntriesCount int       `json:"entries_count"`
	Status       string    `json:"status"`
	StartedAt    time.Time `json:"started_at"`
	EndsAt       time.Time `json:"ends_at"`
}

func toResponse(g *models.Giveaway) GiveawayResponse {
	return GiveawayResponse{
		ID:           g.ID,
		ChannelID:    g.ChannelID,
		Prize:        g.Prize,
		WinnersCount: g.WinnersCount,
		RequiredRole: g.RequiredRole,
		HostID:       g.HostID,
		EntriesCount: len(g.Entries),
		Status:       string(g.Status),
		StartedAt:    g.StartedAt,
		EndsAt:       g.EndsAt,
	}
}

// ClosedResponse is the wire form of an archived giveaway.
type ClosedResponse struct {
	ID           string          `json:"id"`
	ChannelID    string          `json:"channel_id"`
	Prize        string          `json:"prize"`
	WinnersCount int             `json:"winners_count"`
	HostID       string          `json:"host_id"`
	EntriesCount int             `json:"entries_count"`
	Winners      []models.Winner `json:"winners"`
	Reason       string          `json:"reason"`
	EndedAt      time.Time       `json:"ended_at"`
}

func toClosedResponse(g *models.ClosedGiveaway) ClosedResponse {
	return ClosedResponse{
		ID:           g.ID,
		ChannelID:    g.ChannelID,
		Prize:        g.Prize,
		WinnersCount: g.WinnersCount,
		HostID:       g.HostID,
		EntriesCount: len(g.Entries),
		Winners:      g.Winners,
		Reason:       string(g.Reason),
		EndedAt:      g.EndedAt,
	}
}

func (h *GiveawayHandler) list(c *gin.Context) {
	giveaways := h.registry.List()
	sort.Slice(giveaways, func(i, j int) bool {
		return giveaways[i].EndsAt.Before(giveaways[j].EndsAt)
	})

	out := make([]GiveawayResponse, 0, len(giveaways))
	for _, g := range giveaways {
		out = append(out, toResponse(g))
	}
	c.JSON(http.StatusOK, gin.H{"giveaways": out, "count": len(out)})
}

func (h *GiveawayHandler) getByID(c *gin.Context) {
	id := c.Param("id")
	g, ok := h.registry.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": apperrors.NewGiveawayNotFoundError(id)})
		return
	}
	c.JSON(http.StatusOK, toResponse(g))
}

func (h *GiveawayHandler) listClosed(c *gin.Context) {
	out := make([]ClosedResponse, 0)
	if h.archive != nil {
		ids, err := h.archive.ListClosedIDs(c.Request.Context())
		if err != nil {
			logger.Error().Err(err).Msg("failed to list archived giveaways")
			c.JSON(http.StatusInternalServerError, gin.H{"error": apperrors.NewCacheError("list", err)})
			return
		}
		for _, id := range ids {
			g, err := h.archive.GetClosed(c.Request.Context(), id)
			if err != nil {
				// Index entries can outlive expired archive records.
				continue
			}
			out = append(out, toClosedResponse(g))
		}
	}
	c.JSON(http.StatusOK, gin.H{"giveaways": out, "count": len(out)})
}

func (h *GiveawayHandler) getClosed(c *gin.Context) {
	id := c.Param("id")
	if h.archive == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": apperrors.NewGiveawayNotFoundError(id)})
		return
	}
	g, err := h.archive.GetClosed(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": apperrors.NewGiveawayNotFoundError(id)})
		return
	}
	c.JSON(http.StatusOK, toClosedResponse(g))
}

// Health registers the liveness endpoint.
func Health(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
