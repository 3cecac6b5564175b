package http

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/KennelOS/backend/internal/domain/content"
	"github.com/GriffinCanCode/KennelOS/backend/internal/domain/session"
	"github.com/GriffinCanCode/KennelOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/KennelOS/backend/internal/providers/gallery"
	"github.com/GriffinCanCode/KennelOS/backend/internal/providers/records"
	"github.com/GriffinCanCode/KennelOS/backend/internal/providers/weather"
	"github.com/GriffinCanCode/KennelOS/backend/internal/shared/paths"
)

// Records serves dog and contact records
type Records interface {
	Dog(id string) (*records.Dog, error)
	Profile(key string) (*records.Dog, error)
	Contact(id string) (map[string]interface{}, error)
	Contacts() ([]records.Contact, error)
}

// Photos lists gallery images for a content path
type Photos interface {
	Photos(ctx context.Context, contentPath string) ([]gallery.Photo, error)
	Open(rel string) (string, error)
}

// Weather fetches current conditions
type Weather interface {
	Current(ctx context.Context, q weather.Query) (map[string]interface{}, error)
}

// Handlers contains all HTTP handlers
type Handlers struct {
	sessions *session.Manager
	tree     *content.Tree
	records  Records
	photos   Photos
	weather  Weather
	metrics  *monitoring.Metrics
	logger   *zap.Logger
}

// NewHandlers creates a handler set over a session manager
func NewHandlers(sessions *session.Manager) *Handlers {
	return &Handlers{
		sessions: sessions,
		tree:     sessions.Tree(),
		logger:   zap.NewNop(),
	}
}

// WithRecords sets the record store behind the content API
func (h *Handlers) WithRecords(r Records) *Handlers {
	h.records = r
	return h
}

// WithPhotos sets the gallery
func (h *Handlers) WithPhotos(p Photos) *Handlers {
	h.photos = p
	return h
}

// WithWeather sets the weather client
func (h *Handlers) WithWeather(w Weather) *Handlers {
	h.weather = w
	return h
}

// WithMetrics adds metrics to the health report
func (h *Handlers) WithMetrics(m *monitoring.Metrics) *Handlers {
	h.metrics = m
	return h
}

// WithLogger sets the logger
func (h *Handlers) WithLogger(logger *zap.Logger) *Handlers {
	if logger != nil {
		h.logger = logger
	}
	return h
}

// Register mounts every route on r
func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)

	// Content tree
	r.GET("/tree", h.Tree)
	r.GET("/resolve", h.Resolve)
	r.GET("/menu", h.Menu)
	r.GET("/share", h.Share)

	// Desktop sessions
	r.POST("/sessions", h.CreateSession)
	r.GET("/sessions", h.ListSessions)
	r.GET("/sessions/:id", h.GetSession)
	r.DELETE("/sessions/:id", h.DeleteSession)
	r.POST("/sessions/:id/open", h.Open)
	r.POST("/sessions/:id/menu/:item", h.OpenMenu)
	r.POST("/sessions/:id/chat", h.OpenChat)
	r.POST("/sessions/:id/fragment", h.Hashchange)

	// Windows
	r.POST("/sessions/:id/windows/:wid/focus", h.Focus)
	r.POST("/sessions/:id/windows/:wid/minimize", h.Minimize)
	r.POST("/sessions/:id/windows/:wid/maximize", h.Maximize)
	r.POST("/sessions/:id/windows/:wid/close", h.CloseWindow)
	r.POST("/sessions/:id/windows/:wid/move", h.Move)
	r.POST("/sessions/:id/windows/:wid/activate/:key", h.Activate)
	r.GET("/sessions/:id/windows/:wid/content", h.WindowContent)
	r.GET("/sessions/:id/windows/:wid/share", h.ShareWindow)

	// Content API
	api := r.Group("/api")
	api.GET("/dogs/:id", h.GetDog)
	api.GET("/contacts", h.ListContacts)
	api.GET("/contacts/:id", h.GetContact)
	api.GET("/weather", h.GetWeather)
	api.GET("/gallery", h.GetPhotos)
	api.GET("/photos/*file", h.GetPhotoFile)
}

// Root handles health check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "KennelOS desktop service",
		"version": "1.0.0",
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	resp := gin.H{
		"status":   "healthy",
		"sessions": h.sessions.Stats(),
		"content":  gin.H{"nodes": h.tree.Size()},
		"providers": gin.H{
			"records": h.records != nil,
			"gallery": h.photos != nil,
			"weather": h.weather != nil,
		},
	}
	if h.metrics != nil {
		resp["metrics"] = h.metrics.GetSnapshot()
	}
	c.JSON(http.StatusOK, resp)
}

// treeNode is the JSON view of a content node and its subtree
type treeNode struct {
	Key      string     `json:"key"`
	Path     string     `json:"path"`
	Title    string     `json:"title"`
	Icon     string     `json:"icon"`
	Kind     string     `json:"type"`
	FileType string     `json:"file_type,omitempty"`
	Breed    string     `json:"breed,omitempty"`
	Children []treeNode `json:"children,omitempty"`
}

func buildTree(prefix string, c *content.Children) []treeNode {
	keys := c.Keys()
	out := make([]treeNode, 0, len(keys))
	for _, key := range keys {
		n, _ := c.Get(key)
		path := key
		if prefix != "" {
			path = paths.Child(prefix, key)
		}
		view := treeNode{
			Key:      key,
			Path:     path,
			Title:    n.Title,
			Icon:     n.Icon,
			Kind:     string(n.Kind),
			FileType: n.FileType,
			Breed:    n.Breed,
		}
		if children, ok := n.Children(); ok {
			view.Children = buildTree(path, children)
		}
		out = append(out, view)
	}
	return out
}

// Tree returns the whole content tree in declaration order
func (h *Handlers) Tree(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"roots": buildTree("", h.tree.Roots()),
		"size":  h.tree.Size(),
	})
}

// Resolve looks up one path
func (h *Handlers) Resolve(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}

	node, err := h.tree.Resolve(path)
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := gin.H{
		"path":     path,
		"fragment": paths.ToExternal(path),
		"node":     node,
	}
	if entries, err := h.tree.List(path); err == nil {
		resp["entries"] = entries
	}
	c.JSON(http.StatusOK, resp)
}

// Menu lists the start-menu entries
func (h *Handlers) Menu(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"items":   h.tree.Menu(),
		"aliases": content.MenuAliases,
	})
}

// Share builds a deep link for a path
func (h *Handlers) Share(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}
	if _, err := h.tree.Resolve(path); err != nil {
		h.fail(c, err)
		return
	}

	fragment := paths.ToExternal(path)
	c.JSON(http.StatusOK, gin.H{
		"path":     path,
		"fragment": fragment,
		"url":      origin(c) + "/#" + fragment,
	})
}

// origin is the browser-facing origin of the request
func origin(c *gin.Context) string {
	if o := c.GetHeader("Origin"); o != "" {
		return strings.TrimSuffix(o, "/")
	}
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, session.ErrWindowNotFound),
		errors.Is(err, session.ErrUnknownMenuItem),
		errors.Is(err, content.ErrNotFound),
		errors.Is(err, records.ErrNotFound),
		errors.Is(err, gallery.ErrNotGallery),
		errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, session.ErrClosed):
		return http.StatusGone
	case errors.Is(err, weather.ErrMissingLocation):
		return http.StatusBadRequest
	case errors.Is(err, weather.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as a JSON error body
func (h *Handlers) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("route", c.FullPath()),
			zap.Error(err),
		)
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": err.Error()})
}
