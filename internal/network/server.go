package network

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-hclog"
)

const shutdownTimeout = 5 * time.Second

// Options configura o Server.
type Options struct {
	// AllowedOrigins restringe o header Origin. Vazio aceita qualquer origem.
	AllowedOrigins []string
	Logger         hclog.Logger
}

// Server é a estrutura principal do nosso servidor de rede.
type Server struct {
	hub      *Hub
	upgrader websocket.Upgrader
	mux      *http.ServeMux
	logger   hclog.Logger
}

// NewServer recebe o EventHandler que vai tratar os eventos do Hub.
func NewServer(handler EventHandler, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	s := &Server{
		hub:    NewHub(handler, logger),
		mux:    http.NewServeMux(),
		logger: logger,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     checkOrigin(opts.AllowedOrigins),
	}
	s.mux.HandleFunc("/ws", s.wsHandler)
	return s
}

func checkOrigin(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o != "" {
			set[o] = true
		}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return len(set) == 0 || origin == "" || set[origin]
	}
}

// Handle registra rotas HTTP extras (health check, etc) no mesmo servidor.
func (s *Server) Handle(pattern string, handler http.Handler) {
	s.mux.Handle(pattern, handler)
}

// Handler expõe as rotas do servidor, útil para httptest.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start inicia a goroutine do Hub. O Hub para quando ctx é cancelado.
func (s *Server) Start(ctx context.Context) {
	go s.hub.Run(ctx)
}

// wsHandler promove a requisição HTTP para WebSocket e registra o cliente.
func (s *Server) wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	client := newClient(conn, s.hub, s.logger)
	if !s.hub.registerClient(client) {
		client.shutdown()
		return
	}

	go client.writeLoop()
	go client.readLoop()
}

// ListenAndServe inicia o Hub e o servidor HTTP e bloqueia até ctx ser cancelado
// ou o servidor falhar.
func (s *Server) ListenAndServe(ctx context.Context, address string) error {
	s.Start(ctx)

	srv := &http.Server{
		Addr:              address,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("websocket server listening", "address", fmt.Sprintf("ws://%s/ws", address))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
