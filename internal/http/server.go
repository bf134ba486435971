package http

import (
	"context"
	stdhttp "net/http"
	"time"

	"cookbook-service/internal/audit"
	"cookbook-service/internal/auth"
	"cookbook-service/internal/config"
	"cookbook-service/internal/domain/shoppinglist"
	"cookbook-service/internal/domain/user"
	"cookbook-service/internal/http/handler"
	"cookbook-service/internal/http/middleware"
	"cookbook-service/pkg/metrics"
	"cookbook-service/pkg/profiling"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

const (
	apiPrefix        = "/api/v2"
	debugPrefix      = "/debug"
	jsonKeyStatus    = "status"
	statusOK         = "ok"
	statusDown       = "unavailable"
	requestBodyLimit = "1M"
	healthTimeout    = 2 * time.Second
)

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type UserStore interface {
	handler.UserAccounts
	handler.UserProfiles
}

type RecipeStore interface {
	handler.RecipeStore
	handler.RecipeReader
}

type ShoppingListStore interface {
	handler.ShoppingListStore
	GetByID(ctx context.Context, id uuid.UUID) (*shoppinglist.ShoppingList, error)
}

type ServerDependencies struct {
	Config        *config.Config
	Logger        zerolog.Logger
	Health        HealthChecker
	Users         UserStore
	Recipes       RecipeStore
	ShoppingLists ShoppingListStore
	Assets        handler.AssetCatalog
	// Photos is nil when no bucket is configured.
	Photos        handler.PhotoStorage
	Hasher        handler.PasswordHasher
	Authenticator *auth.Authenticator
	Sessions      handler.SessionIssuer
	// Audit may be nil; Record is a no-op on a nil recorder.
	Audit   *audit.Recorder
	Metrics *metrics.Metrics
}

type Server struct {
	echo *echo.Echo
	deps *ServerDependencies
}

func NewServer(deps *ServerDependencies) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = CustomHTTPErrorHandler(deps.Logger)

	e.Server.ReadTimeout = deps.Config.Server.ReadTimeout
	e.Server.WriteTimeout = deps.Config.Server.WriteTimeout

	// Request ID first, so every log line carries it.
	e.Use(middleware.RequestID())
	e.Use(middleware.SecurityHeaders(deps.Config.IsProduction()))
	e.Use(middleware.RequestLogger(deps.Logger))
	if deps.Metrics != nil {
		e.Use(deps.Metrics.Middleware())
	}
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.BodyLimit(requestBodyLimit))
	e.Use(middleware.NewGlobalRateLimiter().Middleware())

	e.GET("/health", healthCheck(deps.Health))
	if deps.Metrics != nil {
		e.GET("/metrics", deps.Metrics.Handler())
	}
	if deps.Config.Server.EnableProfiling {
		profiling.Register(e.Group(debugPrefix))
	}

	registerRoutes(e.Group(apiPrefix), deps)

	return &Server{
		echo: e,
		deps: deps,
	}
}

func registerRoutes(api *echo.Group, deps *ServerDependencies) {
	transport := auth.Transport(deps.Config.Session.Transport)
	required := deps.Authenticator.Require(transport)
	optional := deps.Authenticator.Optional(transport)
	strict := middleware.NewStrictRateLimiter().Middleware()
	uploads := middleware.NewUploadRateLimiter().Middleware()

	ownsRecipe := auth.RequireOwnership(recipeLoader(deps.Recipes))
	ownsList := auth.RequireOwnership(shoppingListLoader(deps.ShoppingLists))
	admin := auth.RequireRole(user.RoleAdmin)

	authHandler := handler.NewAuthHandler(deps.Users, deps.Hasher, deps.Sessions, deps.Audit, transport, deps.Logger)
	recipeHandler := handler.NewRecipeHandler(deps.Recipes, deps.Photos, deps.Logger)
	userHandler := handler.NewUserHandler(deps.Users, deps.Recipes, deps.Photos, deps.Sessions, deps.Audit, deps.Logger)
	listHandler := handler.NewShoppingListHandler(deps.ShoppingLists)
	assetHandler := handler.NewAssetHandler(deps.Assets)

	api.POST("/auth/register", authHandler.Register, strict)
	api.POST("/auth/login", authHandler.Login, strict)
	api.GET("/auth/logout", authHandler.Logout)
	api.GET("/auth/session", authHandler.Session, optional)

	recipes := api.Group("/recipes")
	recipes.GET("", recipeHandler.List, optional)
	recipes.GET("/latest", recipeHandler.Latest, optional)
	recipes.GET("/search", recipeHandler.Search)
	recipes.POST("", recipeHandler.Create, required)
	recipes.GET("/:id", recipeHandler.Get, auth.LoadResource(recipeLoader(deps.Recipes)), optional)
	recipes.PATCH("/:id", recipeHandler.Update, required, ownsRecipe)
	recipes.PATCH("/publish/:id", recipeHandler.Publish, required, ownsRecipe)
	recipes.DELETE("/:id", recipeHandler.Delete, required, ownsRecipe)
	recipes.POST("/:id/photo", recipeHandler.Photo, required, uploads, ownsRecipe)

	users := api.Group("/users")
	users.GET("/me", userHandler.Me, required)
	users.PATCH("/me", userHandler.UpdateMe, required)
	users.DELETE("/me", userHandler.DeleteMe, required)
	users.GET("/me/recipes", userHandler.MyRecipes, required)
	users.GET("/me/favorites", userHandler.Favorites, required)
	users.POST("/me/favorites", userHandler.ToggleFavorite, required)
	users.GET("/me/shopping-lists", listHandler.List, required)
	users.POST("/me/shopping-lists", listHandler.Create, required)
	users.PATCH("/me/shopping-lists/:id", listHandler.Update, required, ownsList)
	users.DELETE("/me/shopping-lists/:id", listHandler.Delete, required, ownsList)
	users.GET("/:id/profile", userHandler.Profile)
	users.POST("/lookup-email", userHandler.LookupEmail, strict)

	assets := api.Group("/assets")
	assets.GET("", assetHandler.Catalog)
	assets.POST("/:field", assetHandler.Create, required, admin)
	assets.PUT("/:field/:id", assetHandler.Update, required, admin)
	assets.DELETE("/:field/:id", assetHandler.Delete, required, admin)
}

// The loaders return an untyped nil on a missing row so LoadResource can
// tell it apart from a loaded resource.
func recipeLoader(store RecipeStore) auth.ResourceLoader {
	return func(ctx context.Context, id uuid.UUID) (auth.Ownable, error) {
		r, err := store.GetByID(ctx, id)
		if err != nil || r == nil {
			return nil, err
		}
		return r, nil
	}
}

func shoppingListLoader(store ShoppingListStore) auth.ResourceLoader {
	return func(ctx context.Context, id uuid.UUID) (auth.Ownable, error) {
		l, err := store.GetByID(ctx, id)
		if err != nil || l == nil {
			return nil, err
		}
		return l, nil
	}
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	s.echo.ServeHTTP(w, r)
}

func healthCheck(checker HealthChecker) echo.HandlerFunc {
	return func(c echo.Context) error {
		if checker != nil {
			ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
			defer cancel()
			if err := checker.Ping(ctx); err != nil {
				return c.JSON(stdhttp.StatusServiceUnavailable, map[string]string{jsonKeyStatus: statusDown})
			}
		}
		return c.JSON(stdhttp.StatusOK, map[string]string{jsonKeyStatus: statusOK})
	}
}

