package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"newshub/config"
	"newshub/internal/service"
	"newshub/internal/store"
)

type Handler struct {
	store     *store.Store
	feed      *service.FeedService
	newsapi   *service.NewsAPIService
	query     *service.QueryService
	saved     *service.SavedService
	auth      *service.AuthService
	status    *service.StatusService
	scheduler interface {
		GetNextFeedTime() time.Time
		GetNextHeadlinesTime() time.Time
	}
}

func NewHandler(st *store.Store, cfg *config.Config) *Handler {
	newsapi := service.NewNewsAPIService(st, cfg.NewsAPI)
	return &Handler{
		store:   st,
		feed:    service.NewFeedService(st, cfg.Feeds),
		newsapi: newsapi,
		query:   service.NewQueryService(st, newsapi),
		saved:   service.NewSavedService(st),
		auth:    service.NewAuthService(st, cfg.Auth.JWTSecret),
		status:  service.NewStatusService(st),
	}
}

// SetScheduler 设置调度器引用
func (h *Handler) SetScheduler(scheduler interface {
	GetNextFeedTime() time.Time
	GetNextHeadlinesTime() time.Time
}) {
	h.scheduler = scheduler
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		// Articles
		api.GET("/articles", h.OptionalAuth(), h.ListArticles)
		api.GET("/categories", h.ListCategories)

		// Saved
		api.POST("/articles/:id/save", h.AuthRequired(), h.ToggleSave)
		api.GET("/saved", h.AuthRequired(), h.ListSaved)

		// Ingestion
		api.POST("/fetch", h.Fetch)

		// Auth
		api.POST("/register", h.Register)
		api.POST("/login", h.Login)

		// Status
		api.GET("/status", h.GetStatus)
	}
}

// ===== Article相关 =====

func (h *Handler) ListArticles(c *gin.Context) {
	categoryID, _ := strconv.Atoi(c.Query("category"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	result, err := h.query.ListArticles(c.Request.Context(), service.ListOptions{
		CategoryID: uint(categoryID),
		Query:      c.Query("q"),
		Page:       page,
		UserID:     currentUserID(c),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.query.ListCategories()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, categories)
}

// ===== Saved相关 =====

func (h *Handler) ToggleSave(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
		return
	}

	result, err := h.saved.Toggle(currentUserID(c), uint(id))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": result})
}

func (h *Handler) ListSaved(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	result, err := h.saved.ListSaved(currentUserID(c), page)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// ===== Ingestion相关 =====

// Fetch 手动触发一次批量抓取(RSS + 头条)
func (h *Handler) Fetch(c *gin.Context) {
	ctx := c.Request.Context()
	feedCount := h.feed.FetchAll(ctx)
	headlineCount := h.newsapi.FetchTopHeadlines(ctx)

	c.JSON(http.StatusOK, gin.H{
		"new_feed_articles":     feedCount,
		"new_headline_articles": headlineCount,
	})
}

// ===== Auth相关 =====

type credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Register(c *gin.Context) {
	var input credentials
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.auth.Register(input.Username, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *Handler) Login(c *gin.Context) {
	var input credentials
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.auth.Login(input.Username, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// ===== Status相关 =====

func (h *Handler) GetStatus(c *gin.Context) {
	status := h.status.GetSystemStatus()

	// 添加定时任务信息
	if h.scheduler != nil {
		status.NextFeedFetch = h.scheduler.GetNextFeedTime()
		status.NextHeadlinesFetch = h.scheduler.GetNextHeadlinesTime()
	}

	c.JSON(http.StatusOK, status)
}
