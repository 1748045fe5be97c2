// Package web provides a local dashboard for an affect agent: its current
// emotion, a way to inject events, the journal, and a live stream of decay steps.
package web

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-affect/internal/log"
	"github.com/teslashibe/go-affect/pkg/affect"
	"github.com/teslashibe/go-affect/pkg/hub"
	"github.com/teslashibe/go-affect/pkg/journal"
)

// maxReactions bounds the in-memory reaction history.
const maxReactions = 100

// JournalReader is the read side of the journal used by the dashboard.
type JournalReader interface {
	Appraisals(ctx context.Context, agent string, limit int) ([]journal.Appraisal, error)
}

// ReactionEntry is a reaction with the time it happened.
type ReactionEntry struct {
	Time     string          `json:"time"`
	Reaction affect.Reaction `json:"reaction"`
}

// Server is the dashboard server.
type Server struct {
	app     *fiber.App
	port    string
	agent   *affect.Agent
	journal JournalReader
	stream  *hub.Hub

	// ctx bounds the stream hub and websocket subscriptions; cancel ends both.
	ctx    context.Context
	cancel context.CancelFunc

	reactions   []ReactionEntry
	reactionsMu sync.RWMutex
}

// NewServer creates a dashboard for agent and starts its stream hub. journal
// may be nil. Call Shutdown to release the hub.
func NewServer(port string, agent *affect.Agent, jr JournalReader) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		port:      port,
		agent:     agent,
		journal:   jr,
		stream:    hub.New("emotion"),
		ctx:       ctx,
		cancel:    cancel,
		reactions: make([]ReactionEntry, 0, maxReactions),
	}
	go s.stream.Run(ctx)

	app := fiber.New(fiber.Config{
		AppName:               "Affect Dashboard",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/emotion", s.handleEmotion)
	api.Get("/labels", s.handleLabels)
	api.Get("/labels/:label", s.handleLabel)
	api.Post("/react", s.handleReact)
	api.Post("/decay/stop", s.handleStopDecay)
	api.Get("/reactions", s.handleReactions)
	api.Get("/journal", s.handleJournal)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		if !s.stream.IsRunning() {
			return fiber.ErrServiceUnavailable
		}
		return c.Next()
	})
	app.Get("/ws/emotion", websocket.New(s.handleEmotionWS))

	agent.Observe(func(snap affect.Snapshot) {
		if err := s.stream.BroadcastJSON("emotion", snap); err != nil {
			log.Warn("failed to encode snapshot", "error", err)
		}
	})

	s.app = app
	return s
}

// App exposes the fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start listens on the configured port until ctx is done or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+s.port)
	if err != nil {
		return err
	}
	log.Info("dashboard listening", "url", "http://localhost:"+s.port)
	return s.Listen(ctx, ln)
}

// Listen serves on an existing listener until ctx is done, then shuts the
// server down.
func (s *Server) Listen(ctx context.Context, ln net.Listener) error {
	go func() {
		select {
		case <-ctx.Done():
		case <-s.ctx.Done():
			return
		}
		if err := s.Shutdown(); err != nil {
			log.Warn("dashboard shutdown", "error", err)
		}
	}()

	return s.app.Listener(ln)
}

// Shutdown stops the stream hub, which closes every websocket, and then the
// HTTP server.
func (s *Server) Shutdown() error {
	s.cancel()
	return s.app.ShutdownWithTimeout(5 * time.Second)
}

// StreamClients returns the number of connected websocket clients.
func (s *Server) StreamClients() int {
	return s.stream.ClientCount()
}

func (s *Server) addReaction(r affect.Reaction) {
	entry := ReactionEntry{
		Time:     time.Now().Format("15:04:05"),
		Reaction: r,
	}

	s.reactionsMu.Lock()
	s.reactions = append(s.reactions, entry)
	if len(s.reactions) > maxReactions {
		s.reactions = s.reactions[1:]
	}
	s.reactionsMu.Unlock()
}
