package server

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/hydrovia/portal-gateway/auth"
	"github.com/hydrovia/portal-gateway/auth/notify"
	"github.com/hydrovia/portal-gateway/internal/config"
	"github.com/hydrovia/portal-gateway/plantapi"
)

// Server is the HTTP surface of the portal gateway: the session endpoints,
// the password lifecycle proxied to the plant API, and the guarded portal
// routes.
type Server struct {
	env      string // Environment (e.g., "development", "production")
	mux      *http.ServeMux
	routes   []string
	config   config.Config
	auth     *auth.Manager
	api      *plantapi.Client
	notifier *notify.Notifier
}

func New(config config.Config, manager *auth.Manager, api *plantapi.Client, notifier *notify.Notifier) (*Server, error) {
	if manager == nil {
		return nil, errors.New("[Server.New] auth manager is required")
	}
	if api == nil {
		return nil, errors.New("[Server.New] plant API client is required")
	}
	if notifier == nil {
		return nil, errors.New("[Server.New] notifier is required")
	}

	s := &Server{
		mux:      http.NewServeMux(),
		config:   config,
		auth:     manager,
		api:      api,
		notifier: notifier,
	}
	s.env = config.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}
