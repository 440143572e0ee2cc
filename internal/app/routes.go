package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/simp-lee/memberbase/internal/domain"
	"github.com/simp-lee/memberbase/internal/middleware"
	"github.com/simp-lee/memberbase/internal/pkg"
	"github.com/simp-lee/memberbase/web"
)

// RouteDeps holds all dependencies needed to register routes.
type RouteDeps struct {
	// PublicModules register outside the session middleware (login/logout).
	PublicModules []Module
	// Modules register behind the session middleware.
	Modules []Module

	Sessions   domain.SessionStore
	DB         *gorm.DB
	Mode       string // "debug" or "release"
	CSRFSecret string
	CookieName string
}

// RegisterRoutes registers all console routes on the given gin.Engine.
// API routes live under /api/v1 and answer 401 when the session is missing;
// page routes carry CSRF protection and redirect to /login instead.
func RegisterRoutes(r *gin.Engine, deps *RouteDeps) error {
	if r == nil {
		return errors.New("router is nil")
	}
	if deps == nil {
		return errors.New("route dependencies are nil")
	}
	if len(deps.Modules) == 0 {
		return errors.New("at least one module is required")
	}
	if deps.Sessions == nil {
		return errors.New("session store is required")
	}
	if strings.TrimSpace(deps.CSRFSecret) == "" {
		return errors.New("csrf secret is required")
	}
	if strings.TrimSpace(deps.CookieName) == "" {
		return errors.New("session cookie name is required")
	}

	if err := registerStaticRoutes(r, deps.Mode); err != nil {
		return fmt.Errorf("register static routes: %w", err)
	}

	r.GET("/health", healthHandler(deps.DB))

	// The console has no standalone home; land on the first screen.
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/castes")
	})

	// API routes — no CSRF.
	api := r.Group("/api/v1")

	// Page routes — with CSRF.
	pages := r.Group("/")
	pages.Use(middleware.CSRF(deps.CSRFSecret))

	for i, m := range deps.PublicModules {
		if m == nil {
			return fmt.Errorf("public module at index %d is nil", i)
		}
		m.RegisterRoutes(api, pages)
	}

	protectedAPI := api.Group("")
	protectedAPI.Use(middleware.Auth(deps.Sessions, deps.CookieName, middleware.AuthOptions{}))

	protectedPages := pages.Group("")
	protectedPages.Use(middleware.Auth(deps.Sessions, deps.CookieName, middleware.AuthOptions{
		RedirectToLogin: true,
		LoginPath:       "/login",
	}))

	for i, m := range deps.Modules {
		if m == nil {
			return fmt.Errorf("module at index %d is nil", i)
		}
		m.RegisterRoutes(protectedAPI, protectedPages)
	}

	r.NoRoute(noRouteHandler())

	return nil
}

// healthHandler pings the local store and reports component status.
func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		storeStatus := "ok"
		status := "ok"
		code := http.StatusOK

		if db == nil {
			storeStatus = "error"
		} else {
			sqlDB, err := db.DB()
			if err != nil {
				storeStatus = "error"
			} else {
				ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
				defer cancel()
				if err := sqlDB.PingContext(ctx); err != nil {
					storeStatus = "error"
				}
			}
		}

		if storeStatus != "ok" {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status": status,
			"components": gin.H{
				"store": storeStatus,
			},
		})
	}
}

// noRouteHandler renders a 404 HTML page for browser requests or a JSON
// envelope for API clients.
func noRouteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/") {
			c.JSON(http.StatusNotFound, pkg.Response{Code: http.StatusNotFound, Message: "not found"})
			return
		}

		renderError(c, http.StatusNotFound, "not found")
	}
}

func registerStaticRoutes(r *gin.Engine, mode string) error {
	if mode == "debug" {
		debugStaticFS, err := resolveDebugStaticFS()
		if err != nil {
			return fmt.Errorf("resolve debug static filesystem: %w", err)
		}
		fileServer := http.StripPrefix("/static", http.FileServer(http.FS(debugStaticFS)))
		r.GET("/static/*filepath", func(c *gin.Context) {
			fileServer.ServeHTTP(c.Writer, c.Request)
		})
		return nil
	}

	// Release mode: serve from embed.FS with cache headers.
	staticFS, err := fs.Sub(web.EmbeddedFS, "static")
	if err != nil {
		return fmt.Errorf("create sub filesystem for static assets: %w", err)
	}
	r.GET("/static/*filepath", cacheStaticHandler(http.FS(staticFS)))
	return nil
}

func resolveDebugStaticFS() (fs.FS, error) {
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		return nil, errors.New("resolve current file path")
	}

	projectRoot := filepath.Clean(filepath.Join(filepath.Dir(currentFile), "..", ".."))
	staticDir := filepath.Join(projectRoot, "web", "static")
	if _, err := os.Stat(staticDir); err != nil {
		return nil, fmt.Errorf("stat static directory %q: %w", staticDir, err)
	}

	return os.DirFS(staticDir), nil
}

// cacheStaticHandler sets a Cache-Control header for release mode assets.
func cacheStaticHandler(fsys http.FileSystem) gin.HandlerFunc {
	fileServer := http.StripPrefix("/static", http.FileServer(fsys))
	return func(c *gin.Context) {
		c.Header("Cache-Control", "public, max-age=86400")
		fileServer.ServeHTTP(c.Writer, c.Request)
	}
}
