package server_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/centraunit/headless/mock"
	"github.com/centraunit/headless/server"
	"github.com/centraunit/headless/session"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"
)

type ServerTestSuite struct {
	suite.Suite

	pages *mock.PageRenderer
}

func (s *ServerTestSuite) SetupTest() {
	s.pages = &mock.PageRenderer{Body: "<html>page</html>"}
}

func (s *ServerTestSuite) newServer(deps server.Deps) *server.Server {
	if deps.Pages == nil {
		deps.Pages = s.pages
	}
	srv, err := server.New(server.Config{}, zerolog.Nop(), deps)
	s.Require().NoError(err)
	return srv
}

func (s *ServerTestSuite) TestPluginPathsDispatchToHandlers() {
	var events, plugins int
	srv := s.newServer(server.Deps{
		Events: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			events++
			w.WriteHeader(http.StatusOK)
		}),
		ServicePlugins: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			plugins++
			w.WriteHeader(http.StatusOK)
		}),
	})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, server.DefaultEventsPath, strings.NewReader("{}")))
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(1, events)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, server.DefaultServicePluginsPath, strings.NewReader("{}")))
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(1, plugins)

	s.Equal(int32(0), s.pages.Calls.Load(), "plugin paths bypass the page renderer")
}

func (s *ServerTestSuite) TestEverythingElseGoesToPages() {
	srv := s.newServer(server.Deps{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/shop/products", nil))

	body, _ := io.ReadAll(rec.Result().Body)
	s.Equal("<html>page</html>", string(body))
	s.Equal(int32(1), s.pages.Calls.Load())

	// GET on a plugin path is not a plugin call either.
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, server.DefaultEventsPath, nil))
	s.Equal(int32(2), s.pages.Calls.Load())
}

func (s *ServerTestSuite) TestMissingPageRenderer() {
	_, err := server.New(server.Config{}, zerolog.Nop(), server.Deps{})
	var missing *server.MissingDependencyError
	s.ErrorAs(err, &missing)
}

func (s *ServerTestSuite) TestDefaultPluginHandlers() {
	srv := s.newServer(server.Deps{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, server.DefaultEventsPath, nil))
	s.Equal(http.StatusNoContent, rec.Code)
}

func (s *ServerTestSuite) TestSessionMiddlewareWired() {
	codec := session.NewCodec("client-1")
	var seen session.Payload
	srv := s.newServer(server.Deps{
		Sessions: codec,
		Events: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = session.FromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}),
	})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, server.DefaultEventsPath, nil))

	s.Equal("client-1", seen.ClientID)
	s.Require().Len(rec.Result().Cookies(), 1)
}

func (s *ServerTestSuite) TestMetrics() {
	metrics := server.NewMetrics()
	srv := s.newServer(server.Deps{Metrics: metrics})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/shop", nil))

	families, err := metrics.Gather().Gather()
	s.Require().NoError(err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	s.Contains(names, "headless_http_requests_total")
	s.Contains(names, "headless_http_request_duration_seconds")

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	s.Equal(http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Result().Body)
	s.Contains(string(body), "headless_http_requests_total")
}

func (s *ServerTestSuite) TestMetricsLabelsUseRoutePattern() {
	metrics := server.NewMetrics()
	srv := s.newServer(server.Deps{Metrics: metrics})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, server.DefaultEventsPath, strings.NewReader("{}")))

	// Every page URL collapses into one label.
	for _, path := range []string{"/shop/products/p-1", "/shop/products/p-2"} {
		rec = httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Result().Body)

	s.Contains(string(body), `path="`+server.DefaultEventsPath+`"`)
	s.Contains(string(body), `path="page"`)
	s.NotContains(string(body), `path="/shop/products/p-1"`,
		"raw request paths must not become label values")
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}
