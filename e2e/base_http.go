package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"feed-lab/auth"
	"feed-lab/infrastructure/http/server"
	"feed-lab/moderation"
	"feed-lab/observability"
	"feed-lab/repositories"
	"feed-lab/services"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/stretchr/testify/suite"
)

type BaseHTTPSuite struct {
	suite.Suite
	Config  Config
	BaseURL string

	client *http.Client
	srv    *httptest.Server
}

// SetupSuite loads the environment configuration before running tests.
// Without SERVER_ADDR the whole stack is assembled in-process so the
// suite is self-contained.
func (s *BaseHTTPSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)

	s.client = &http.Client{Timeout: 10 * time.Second}

	if s.Config.ServerAddr != "" {
		s.BaseURL = "http://" + s.Config.ServerAddr
		return
	}
	s.srv = httptest.NewServer(s.buildRouter())
	s.BaseURL = s.srv.URL
}

func (s *BaseHTTPSuite) TearDownSuite() {
	if s.srv != nil {
		s.srv.Close()
	}
}

func (s *BaseHTTPSuite) buildRouter() http.Handler {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLoggingLevel(badger.ERROR)
	db, err := badger.Open(opts)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = db.Close() })

	writer, err := bluge.OpenWriter(bluge.DefaultConfig(s.T().TempDir()))
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = writer.Close() })

	logger := slog.Default()
	moderator, err := moderation.NewModerator(nil, '*', logger)
	s.Require().NoError(err)

	users := repositories.NewUserRepository(db)
	posts := repositories.NewPostRepository(db)
	index := repositories.NewPostIndex(writer, logger)
	tokens := auth.NewTokenManager("e2e-secret", time.Hour)
	monitor := observability.NewMonitor(logger)

	gateway := server.NewServer(logger,
		services.NewAuthService(users, tokens),
		services.NewPostService(posts, users, index, moderator, 280, 10),
		tokens, monitor)
	return gateway.Router()
}

// Step prints a colorized header so scenario phases stand out in logs.
func (s *BaseHTTPSuite) Step(t *testing.T, name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	t.Log(header)
}

// Do sends a JSON request and decodes the envelope, logging timings and,
// when E2E_DEBUG_JSON is set, the full bodies.
func (s *BaseHTTPSuite) Do(t *testing.T, method, path, token string, body any) (int, server.APIResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, s.BaseURL+path, &buf)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	var envelope server.APIResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&envelope))

	logBuilder := strings.Builder{}
	fmt.Fprintf(&logBuilder, "HTTP %s %s [%d] in %v", method, path, resp.StatusCode, time.Since(start))
	if s.Config.DebugJSON {
		fmt.Fprintln(&logBuilder, "\nREQUEST:")
		fmt.Fprintln(&logBuilder, buf.String())
		pretty, _ := json.MarshalIndent(envelope, "", "  ")
		fmt.Fprintln(&logBuilder, "RESPONSE:")
		fmt.Fprintln(&logBuilder, string(pretty))
	}
	t.Log(logBuilder.String())

	return resp.StatusCode, envelope
}

// DecodeData re-marshals the envelope data into a typed destination.
func (s *BaseHTTPSuite) DecodeData(envelope server.APIResponse, dst any) {
	raw, err := json.Marshal(envelope.Data)
	s.Require().NoError(err)
	s.Require().NoError(json.Unmarshal(raw, dst))
}
