// Package server exposes the client state over HTTP and streams store
// changes over WebSocket.
package server

import (
	"context"
	"sync"
	"time"

	"mindfeed/internal/config"
	"mindfeed/internal/directory"
	"mindfeed/internal/featureflags"
	"mindfeed/internal/models"
	"mindfeed/internal/observability"
	"mindfeed/internal/service"
	"mindfeed/internal/store"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

const version = "1.0.0"

var (
	promOnce       sync.Once
	promMiddleware *fiberprometheus.FiberPrometheus
)

// prometheusMiddleware registers the HTTP collectors once per process.
func prometheusMiddleware() *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promMiddleware = fiberprometheus.New("mindfeed")
	})
	return promMiddleware
}

// Stores groups the client state containers the facade serves.
type Stores struct {
	User          *store.UserStore
	Thoughts      *store.ThoughtStore
	Notes         *store.NotesStore
	Relationships *store.RelationshipStore
	Selection     *store.SelectionStore
}

// Deps are the already constructed collaborators of a Server.
type Deps struct {
	Config    *config.Config
	Directory directory.Directory
	Stores    Stores
	Flags     *featureflags.Manager
}

// Server holds all dependencies and provides handlers
type Server struct {
	config    *config.Config
	app       *fiber.App
	stores    Stores
	flags     *featureflags.Manager
	hub       *ChangeHub
	users     *service.UserService
	thoughts  *service.ThoughtService
	notes     *service.NoteService
	startedAt time.Time
}

// New wires services over deps and builds the fiber app.
func New(deps Deps) *Server {
	thoughtSvc := service.NewThoughtService(deps.Stores.Thoughts, deps.Stores.User)
	s := &Server{
		config:    deps.Config,
		stores:    deps.Stores,
		flags:     deps.Flags,
		hub:       NewChangeHub(),
		users:     service.NewUserService(deps.Directory, deps.Stores.User),
		thoughts:  thoughtSvc,
		notes:     service.NewNoteService(deps.Stores.Notes, thoughtSvc),
		startedAt: time.Now(),
	}

	s.hub.Watch("user", deps.Stores.User)
	s.hub.Watch("thoughts", deps.Stores.Thoughts)
	s.hub.Watch("notes", deps.Stores.Notes)
	s.hub.Watch("relationships", deps.Stores.Relationships)
	s.hub.Watch("selection", deps.Stores.Selection)

	app := fiber.New(fiber.Config{
		AppName:               "mindfeed",
		DisableStartupMessage: true,
		// Route params and bodies end up inside the stores, so they must
		// not alias fasthttp's pooled buffers.
		Immutable: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
			}
			observability.GlobalLogger.ErrorContext(c.UserContext(), "unhandled error", "error", err.Error())
			return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
		},
	})
	s.app = app
	s.setupMiddleware(app)
	s.setupRoutes(app)
	return s
}

// Users exposes the session service, e.g. to sign a user in on boot.
func (s *Server) Users() *service.UserService {
	return s.users
}

// App returns the fiber app, mainly for app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) setupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(contextMiddleware())

	prom := prometheusMiddleware()
	prom.RegisterAt(app, "/metrics")
	app.Use(prom.Middleware)

	app.Use(structuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		MaxAge:       86400,
	}))
}

func (s *Server) setupRoutes(app *fiber.App) {
	app.Get("/health", s.HealthCheck)
	app.Use("/ws", upgradeRequired)
	app.Get("/ws", s.hub.Handler())

	api := app.Group("/api")
	api.Get("/flags", s.GetFlags)

	session := api.Group("/session")
	session.Get("/", s.GetSession)
	session.Post("/", s.SignIn)
	session.Patch("/profile", s.UpdateProfile)
	session.Delete("/", s.SignOut)

	thoughts := api.Group("/thoughts")
	thoughts.Get("/", s.GetFeed)
	thoughts.Post("/", s.CreateThought)
	thoughts.Get("/trending", s.flagRequired(featureflags.Trending), s.GetTrending)
	thoughts.Put("/filter", s.SetFeedFilter)
	thoughts.Get("/:id", s.GetThought)
	thoughts.Patch("/:id", s.UpdateThought)
	thoughts.Delete("/:id", s.DeleteThought)
	thoughts.Post("/:id/like", s.ToggleLike)
	thoughts.Post("/:id/comments", s.CreateComment)

	api.Get("/selection", s.GetSelection)
	api.Put("/selection", s.SetSelection)

	notes := api.Group("/notes")
	notes.Get("/", s.ListNotes)
	notes.Post("/", s.CreateNote)
	notes.Get("/selected", s.GetSelectedNote)
	notes.Put("/selected", s.SelectNote)
	notes.Put("/:id", s.SaveNote)
	notes.Delete("/:id", s.DeleteNote)
	notes.Post("/:id/pin", s.TogglePin)
	notes.Post("/:id/publish", s.flagRequired(featureflags.NotePublish), s.PublishNote)

	users := api.Group("/users")
	users.Get("/suggested", s.flagRequired(featureflags.Suggestions), s.GetSuggestedUsers)
	users.Get("/following", s.GetFollowing)
	users.Get("/:id", s.GetUser)
	users.Get("/:id/thoughts", s.GetUserThoughts)
	users.Post("/:id/follow", s.Follow)
	users.Delete("/:id/follow", s.Unfollow)
}

// HealthCheck reports liveness.
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":        "up",
		"version":       version,
		"uptimeSeconds": int(time.Since(s.startedAt).Seconds()),
		"subscribers":   s.hub.Clients(),
		"time":          time.Now().UTC(),
	})
}

// Start listens on the configured port and blocks.
func (s *Server) Start() error {
	observability.GlobalLogger.Info("server starting", "port", s.config.Port)
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown disconnects stream clients and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.hub.Shutdown(ctx); err != nil {
		observability.GlobalLogger.Error("error shutting down change hub", "error", err)
	}
	return s.app.ShutdownWithContext(ctx)
}
