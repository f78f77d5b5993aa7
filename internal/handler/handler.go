package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/thenromanov/stats-service/internal/domain"
	"github.com/thenromanov/stats-service/internal/dto"
	"github.com/thenromanov/stats-service/internal/service"
)

const defaultTimelineDays = 7

// Handler is the thin gateway-facing HTTP surface over the stats service.
type Handler struct {
	statsService service.StatsServicer
	router       *gin.Engine
	log          *zap.Logger
}

func NewHandler(statsService service.StatsServicer, log *zap.Logger) *Handler {
	h := &Handler{
		statsService: statsService,
		router:       gin.Default(),
		log:          log,
	}

	h.registerRoutes()

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/health", h.healthCheck)
	h.router.GET("/posts/:post_id/stats", h.getPostStats)
	h.router.GET("/posts/:post_id/views/timeline", h.postTimeline("views"))
	h.router.GET("/posts/:post_id/likes/timeline", h.postTimeline("likes"))
	h.router.GET("/posts/:post_id/comments/timeline", h.postTimeline("comments"))
	h.router.GET("/top/posts", h.getTopPosts)
	h.router.GET("/top/users", h.getTopUsers)
}

func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// getPostStats handles GET /posts/:post_id/stats.
func (h *Handler) getPostStats(c *gin.Context) {
	postID := c.Param("post_id")

	response, err := h.statsService.GetPostStats(c.Request.Context(), postID)
	if err != nil {
		h.log.Error("Failed to get post stats",
			zap.Error(err),
			zap.String("post_id", postID))
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// postTimeline handles GET /posts/:post_id/<metric>/timeline. When the
// caller sends neither bound, a trailing window of `days` (default 7) is
// converted to explicit inclusive bounds, the way the gateway's stats client
// does.
func (h *Handler) postTimeline(metric string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.TimelineRequest
		if err := c.ShouldBindQuery(&req); err != nil {
			h.log.Warn("Invalid timeline request", zap.Error(err))
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   "validation_error",
				Message: err.Error(),
			})
			return
		}
		req.PostID = c.Param("post_id")
		req.Metric = metric

		if req.StartDate == "" && req.EndDate == "" {
			days := defaultTimelineDays
			if raw, ok := c.GetQuery("days"); ok {
				if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
					days = parsed
				}
			}
			now := time.Now()
			req.EndDate = now.Format(domain.DateLayout)
			req.StartDate = now.AddDate(0, 0, -days).Format(domain.DateLayout)
		}

		response, err := h.statsService.GetPostTimeline(c.Request.Context(), &req)
		if err != nil {
			h.log.Error("Failed to get post timeline",
				zap.Error(err),
				zap.String("post_id", req.PostID),
				zap.String("metric", metric))
			h.writeError(c, err)
			return
		}

		c.JSON(http.StatusOK, response)
	}
}

// getTopPosts handles GET /top/posts.
func (h *Handler) getTopPosts(c *gin.Context) {
	var req dto.TopRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.log.Warn("Invalid top posts request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	response, err := h.statsService.GetTopPosts(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("Failed to get top posts", zap.Error(err))
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// getTopUsers handles GET /top/users.
func (h *Handler) getTopUsers(c *gin.Context) {
	var req dto.TopRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.log.Warn("Invalid top users request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	response, err := h.statsService.GetTopUsers(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("Failed to get top users", zap.Error(err))
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// writeError maps caller mistakes to 400 and store failures to a generic
// internal error, with no partial results and no retry at this layer.
func (h *Handler) writeError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrInvalidArgument) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error:   "internal_error",
		Message: err.Error(),
	})
}
