// Package mockserver is a local stand-in for the search service. It answers
// alivetest.php and serves canned fixtures for index.php, selector.php and
// autocomplete.php so the client and the CLI can be exercised offline.
package mockserver

import (
	"log"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/gin-gonic/gin"

	"github.com/r9s-ai/findologic-api-go/internal/logx"
	"github.com/r9s-ai/findologic-api-go/pkg/definitions"
	"github.com/r9s-ai/findologic-api-go/pkg/requestid"
	"github.com/r9s-ai/findologic-api-go/pkg/validation"
)

// Context keys the handlers set for the access log.
const (
	ctxEndpoint = "mock.endpoint"
	ctxFixture  = "mock.fixture"
)

// Options configures a Server.
type Options struct {
	FixturesDir     string
	RequestIDHeader string

	// AccessLog receives one line per request when set.
	AccessLog       *log.Logger
	AccessLogColor  bool
	AccessFormatter *logx.AccessLogFormatter

	Logger *slog.Logger
}

// Server holds the current fixture set. Reload swaps it atomically so
// in-flight requests keep the set they started with.
type Server struct {
	opts     Options
	logger   *slog.Logger
	fixtures atomic.Pointer[FixtureSet]
	down     atomic.Bool
	engine   *gin.Engine
}

// New loads the fixtures and builds the router.
func New(opts Options) (*Server, error) {
	set, err := LoadFixtures(opts.FixturesDir)
	if err != nil {
		return nil, err
	}
	s := &Server{opts: opts, logger: opts.Logger}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.fixtures.Store(set)
	s.engine = s.newRouter()
	return s, nil
}

// Handler returns the gin engine.
func (s *Server) Handler() http.Handler { return s.engine }

// Fixtures returns the current fixture set.
func (s *Server) Fixtures() *FixtureSet { return s.fixtures.Load() }

// SetAlive makes alivetest.php report the service up or down.
func (s *Server) SetAlive(alive bool) { s.down.Store(!alive) }

// Reload re-reads the fixtures dir. The old set is kept on error.
func (s *Server) Reload() error {
	set, err := LoadFixtures(s.opts.FixturesDir)
	if err != nil {
		return err
	}
	s.fixtures.Store(set)
	return nil
}

func (s *Server) newRouter() *gin.Engine {
	headerKey := requestid.ResolveHeaderKey(s.opts.RequestIDHeader)
	r := gin.New()
	r.Use(requestIDMiddleware(headerKey))
	if s.opts.AccessLog != nil {
		r.Use(requestLogger(s.opts.AccessLog, s.opts.AccessLogColor, headerKey, s.opts.AccessFormatter))
	}
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "fixtures": s.Fixtures().Names()})
	})

	ps := r.Group("/ps")
	ps.Use(shopkeyMiddleware())
	ps.GET("/"+definitions.EndpointAlivetest, s.handleAlivetest)
	ps.GET("/"+definitions.EndpointSearch, s.fixtureHandler(definitions.EndpointSearch))
	ps.GET("/"+definitions.EndpointNavigation, s.fixtureHandler(definitions.EndpointNavigation))
	ps.GET("/"+definitions.EndpointSuggestion, s.fixtureHandler(definitions.EndpointSuggestion))
	return r
}

func (s *Server) handleAlivetest(c *gin.Context) {
	c.Set(ctxEndpoint, definitions.EndpointAlivetest)
	if s.down.Load() {
		c.String(http.StatusOK, "maintenance")
		return
	}
	c.String(http.StatusOK, definitions.ServiceAliveBody)
}

func (s *Server) fixtureHandler(endpoint string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ctxEndpoint, endpoint)
		adapter := strings.TrimSpace(c.Query(definitions.ParamOutputAdapter))
		if endpoint == definitions.EndpointSuggestion {
			adapter = definitions.OutputAdapterJSON10
		}
		if adapter == "" {
			adapter = definitions.OutputAdapterXML21
		}
		if !definitions.IsOutputAdapter(adapter) {
			c.String(http.StatusBadRequest, "unsupported output adapter")
			return
		}
		f, ok := s.Fixtures().Lookup(endpoint, adapter)
		if !ok {
			s.logger.Warn("fixture missing", "endpoint", endpoint, "fixture", FixtureName(endpoint, adapter))
			c.String(http.StatusNotFound, "no fixture")
			return
		}
		c.Set(ctxFixture, f.Name)
		c.Data(http.StatusOK, f.ContentType, f.Body)
	}
}

// shopkeyMiddleware rejects requests without a well-formed shopkey, like the
// real service does.
func shopkeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Query(definitions.ParamShopkey)
		if !validation.Check(validation.RuleShopkey, definitions.ParamShopkey, key) {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}

func requestIDMiddleware(headerKey string) gin.HandlerFunc {
	headerKey = requestid.ResolveHeaderKey(headerKey)
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(headerKey))
		if id == "" {
			id = requestid.Gen()
		}
		c.Header(headerKey, id)
		c.Set(headerKey, id)
		c.Next()
	}
}
