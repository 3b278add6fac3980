package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/shelfdesk/shelfdesk/pkg/auth"
	"github.com/shelfdesk/shelfdesk/pkg/authors"
	"github.com/shelfdesk/shelfdesk/pkg/binder"
	"github.com/shelfdesk/shelfdesk/pkg/books"
	"github.com/shelfdesk/shelfdesk/pkg/config"
	"github.com/shelfdesk/shelfdesk/pkg/customers"
	"github.com/shelfdesk/shelfdesk/pkg/errcodes"
	"github.com/shelfdesk/shelfdesk/pkg/issues"
	"github.com/shelfdesk/shelfdesk/pkg/reports"
	"github.com/shelfdesk/shelfdesk/pkg/showcase"
	"github.com/uptrace/bun"
)

func New(cfg *config.Config, db *bun.DB) (*http.Server, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORS())

	health.RegisterRoutes(e)

	authService := auth.RegisterRoutes(e, db, cfg.JWTSecret)
	authMiddleware := auth.NewMiddleware(authService)

	registerPublicRoutes(e, db, cfg)
	registerAdminRoutes(e, db, cfg, authMiddleware)

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

// registerPublicRoutes registers the browse surface: the catalog and the
// showcase are readable without a session.
func registerPublicRoutes(e *echo.Echo, db *bun.DB, cfg *config.Config) {
	books.RegisterPublicRoutes(e.Group("/books"), db, cfg)
	authors.RegisterPublicRoutes(e.Group("/authors"), db)
	showcase.RegisterPublicRoutes(e.Group("/showcase"), db)
}

// registerAdminRoutes registers everything that mutates records or exposes
// customer data. All of it sits behind an authenticated admin session.
func registerAdminRoutes(e *echo.Echo, db *bun.DB, cfg *config.Config, authMiddleware *auth.Middleware) {
	admin := func(prefix string) *echo.Group {
		g := e.Group(prefix)
		g.Use(authMiddleware.Authenticate)
		g.Use(authMiddleware.RequireAdmin)
		return g
	}

	books.RegisterAdminRoutes(admin("/books"), db, cfg)
	authors.RegisterAdminRoutes(admin("/authors"), db)
	showcase.RegisterAdminRoutes(admin("/showcase"), db)
	customers.RegisterRoutesWithGroup(admin("/customers"), db)
	issues.RegisterRoutesWithGroup(admin("/issues"), db)
	reports.RegisterRoutesWithGroup(admin("/reports"), db)
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
