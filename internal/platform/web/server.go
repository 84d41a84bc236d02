// Package web serves snake in a browser. Each websocket connection owns
// one session; the server ticks it and pushes frames as JSON.
package web

import (
	"context"
	"embed"
	"errors"
	"io"
	"io/fs"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/engine"
	"github.com/vovakirdan/tui-snake/internal/session"
)

//go:embed static
var staticFiles embed.FS

const writeWait = 5 * time.Second

// Config holds the web server settings.
type Config struct {
	// Address is the host:port to listen on (e.g., ":8080").
	Address string

	// Game supplies the default board, presets and tick interval.
	Game *config.Config

	// OnFinish receives every finished game. May be nil.
	OnFinish func(session.Result)

	Logger *log.Logger
}

// Server is the HTTP and websocket front-end.
type Server struct {
	cfg      Config
	upgrader websocket.Upgrader
	logger   *log.Logger
}

// ClientMessage is what browsers send over the socket.
type ClientMessage struct {
	Type string `json:"type"` // "steer" or "restart"
	Dir  string `json:"dir,omitempty"`
}

// ServerMessage is what the server pushes over the socket.
type ServerMessage struct {
	Type  string         `json:"type"` // "frame"
	Frame *session.Frame `json:"frame,omitempty"`
}

// New creates a server. It does not listen until ListenAndServe.
func New(cfg Config) *Server {
	if cfg.Game == nil {
		def := config.Default()
		cfg.Game = &def
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	return &Server{
		cfg:      cfg,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		logger:   cfg.Logger,
	}
}

// Handler returns the HTTP routes: the page at /, the socket at /ws and a
// health check at /healthz.
func (s *Server) Handler() http.Handler {
	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.FS(static)))
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, "ok\n")
	})
	return mux
}

// ListenAndServe serves until ctx is done, then shuts down. Open game
// sockets are closed through the request contexts, which derive from ctx.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting web server", "address", s.cfg.Address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// gameParams resolves the board and seed from ?preset=, ?seed=.
func (s *Server) gameParams(r *http.Request) (session.Config, error) {
	game := *s.cfg.Game
	if name := r.URL.Query().Get("preset"); name != "" {
		if err := game.ApplyPreset(name); err != nil {
			return session.Config{}, err
		}
		// The configured start cell belongs to the default board.
		game.Board.StartRow, game.Board.StartCol = 0, 0
	}

	sc := session.Config{
		Rows:     game.Board.Rows,
		Cols:     game.Board.Cols,
		Start:    game.Board.Start(),
		OnFinish: s.cfg.OnFinish,
		Logger:   s.logger,
	}
	if raw := r.URL.Query().Get("seed"); raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return session.Config{}, err
		}
		sc.Seed = seed
	}
	return sc, nil
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	sc, err := s.gameParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sess, err := session.New(sc)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade", "error", err)
		return
	}
	defer conn.Close()

	logger := s.logger.With("remote", r.RemoteAddr)
	logger.Info("web session started", "rows", sc.Rows, "cols", sc.Cols)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Single reader goroutine; all writes happen in Run's callback.
	go func() {
		defer cancel()
		for {
			var msg ClientMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			s.handleClientMessage(sess, msg, logger)
		}
	}()

	err = sess.Run(ctx, s.cfg.Game.Timing.TickInterval(), func(f session.Frame) error {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(ServerMessage{Type: "frame", Frame: &f})
	})
	if errors.Is(err, context.Canceled) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
			time.Now().Add(writeWait))
	} else if err != nil {
		logger.Debug("web session write", "error", err)
	}

	logger.Info("web session ended", "score", sess.Frame().Score)
}

func (s *Server) handleClientMessage(sess *session.Session, msg ClientMessage, logger *log.Logger) {
	switch msg.Type {
	case "steer":
		dir, err := engine.ParseDirection(msg.Dir)
		if err != nil {
			logger.Debug("bad steer", "dir", msg.Dir)
			return
		}
		sess.Steer(dir)
	case "restart":
		if sess.GameOver() {
			if err := sess.Restart(0); err != nil {
				logger.Error("restart failed", "error", err)
			}
		}
	default:
		logger.Debug("unknown message", "type", msg.Type)
	}
}
