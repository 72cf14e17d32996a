package httpserver

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"toystore/internal/domain"
	"toystore/internal/search"
	cartsvc "toystore/internal/service/cart"
	catalogsvc "toystore/internal/service/catalog"
	identitysvc "toystore/internal/service/identity"
)

// Deps are the services the router dispatches to.
type Deps struct {
	SessionSvc  SessionIssuer
	CatalogSvc  CatalogService
	IdentitySvc IdentityService
	CartSvc     CartService
	// CORSOrigins empty disables the CORS middleware.
	CORSOrigins []string
}

type SessionIssuer interface {
	Resolve(id string) (string, bool)
}

type CatalogService interface {
	Search(ctx context.Context, sessionID string, c search.Criteria) []domain.Toy
	Detail(ctx context.Context, sessionID, permalink string) (*domain.Toy, error)
	Types(ctx context.Context, sessionID string) []catalogsvc.TypeView
}

type IdentityService interface {
	Register(ctx context.Context, in identitysvc.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, sessionID, email, password string) (*domain.SessionUser, error)
	Logout(ctx context.Context, sessionID string) error
	Current(ctx context.Context, sessionID string) (*domain.SessionUser, error)
	Profile(ctx context.Context, sess domain.Session) (*domain.User, error)
	UpdateProfile(ctx context.Context, sess domain.Session, in identitysvc.ProfileInput) (*domain.User, error)
}

type CartService interface {
	Summary(ctx context.Context, sess domain.Session) (cartsvc.Summary, error)
	Contains(ctx context.Context, sess domain.Session, toyID int) (bool, error)
	AddItem(ctx context.Context, sess domain.Session, toy domain.Toy) ([]domain.CartItem, error)
	ChangeQuantity(ctx context.Context, sess domain.Session, toyID, delta int) ([]domain.CartItem, error)
	RemoveItem(ctx context.Context, sess domain.Session, toyID int) ([]domain.CartItem, error)
	SetStatus(ctx context.Context, sess domain.Session, toyID int, status domain.OrderStatus) ([]domain.CartItem, error)
	SubmitReview(ctx context.Context, sess domain.Session, toyID int, in cartsvc.ReviewInput) ([]domain.CartItem, error)
}

type api struct {
	logger *log.Logger
	deps   Deps
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if deps.SessionSvc == nil || deps.CatalogSvc == nil || deps.IdentitySvc == nil || deps.CartSvc == nil {
		return nil, errors.New("httpserver: missing service dependency")
	}

	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	if len(deps.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     deps.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", sessionHeader},
			ExposeHeaders:    []string{sessionHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	a := &api{logger: logger, deps: deps}
	store := router.Group("/", sessionMiddleware(deps.SessionSvc, deps.IdentitySvc, logger))

	store.GET("/toys", a.listToys)
	store.GET("/toys/:permalink", a.toyDetail)
	store.GET("/types", a.listTypes)
	store.POST("/users", a.register)
	store.POST("/login", a.login)
	store.POST("/logout", a.logout)

	user := store.Group("/", requireUser())
	user.POST("/toys/:permalink/cart", a.addToCart)
	user.GET("/me", a.me)
	user.PUT("/me", a.updateMe)
	user.GET("/cart", a.getCart)
	user.PATCH("/cart/items/:toyId/quantity", a.changeQuantity)
	user.PUT("/cart/items/:toyId/status", a.setStatus)
	user.PUT("/cart/items/:toyId/review", a.submitReview)
	user.DELETE("/cart/items/:toyId", a.removeItem)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})

	return router, nil
}
