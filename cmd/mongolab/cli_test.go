package main

import (
	"bytes"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/containerd/errdefs"
	"github.com/stretchr/testify/suite"
	"github.com/vinicius-lino-figueiredo/mongolab/domain"
)

const apiKey = "4f2a8c1e9b3d7a0012345678"

type CLITestSuite struct {
	suite.Suite
	server *httptest.Server
	mu     sync.Mutex
	reqs   []*http.Request
	bodies []string
	env    map[string]string
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

func (s *CLITestSuite) SetupTest() {
	s.reqs, s.bodies = nil, nil
	s.env = map[string]string{envAPIKey: apiKey}
	s.out, s.errOut = new(bytes.Buffer), new(bytes.Buffer)
	s.server = httptest.NewServer(http.HandlerFunc(s.serve))
}

func (s *CLITestSuite) TearDownTest() {
	s.server.Close()
}

func (s *CLITestSuite) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	body, _ := io.ReadAll(r.Body)
	s.reqs = append(s.reqs, r)
	s.bodies = append(s.bodies, string(body))

	if r.URL.Query().Get(domain.ParamAPIKey) != apiKey {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"bad key"}`)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/api/1/":
		_, _ = io.WriteString(w, `{}`)
	case "/api/1/databases":
		_, _ = io.WriteString(w, `["a","b"]`)
	case "/api/1/databases/db/collections":
		_, _ = io.WriteString(w, `["col"]`)
	case "/api/1/databases/db/collections/col":
		switch r.Method {
		case http.MethodGet:
			_, _ = io.WriteString(w, `[{"_id":{"$oid":"5f1d7a9c8e4b2a0012345678"},"a":1},{"a":2}]`)
		case http.MethodPost:
			_, _ = io.WriteString(w, `{"_id":"x","a":1}`)
		case http.MethodPut:
			_, _ = io.WriteString(w, `{"n":2}`)
		}
	case "/api/1/databases/db/collections/col/x":
		_, _ = io.WriteString(w, `{"_id":"x"}`)
	case "/api/1/databases/db/runCommand":
		_, _ = io.WriteString(w, `{"ok":1}`)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (s *CLITestSuite) run(args ...string) error {
	path := filepath.Join(s.T().TempDir(), "config.toml")
	s.Require().NoError(os.WriteFile(path, nil, 0o600))
	return s.runWithConfig(path, args...)
}

func (s *CLITestSuite) runWithConfig(path string, args ...string) error {
	args = append([]string{"--config", path, "--base-url", s.server.URL + "/api/1/"}, args...)
	cmd := newRootCommand(s.out, s.errOut, func(k string) string { return s.env[k] })
	cmd.SetArgs(args)
	return cmd.Execute()
}

// last returns the last request received and its body.
func (s *CLITestSuite) last() (*http.Request, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Require().NotEmpty(s.reqs)
	return s.reqs[len(s.reqs)-1], s.bodies[len(s.bodies)-1]
}

func (s *CLITestSuite) TestDatabases() {
	s.Require().NoError(s.run("databases"))
	s.Equal("a\nb\n", s.out.String())
}

func (s *CLITestSuite) TestCollections() {
	s.Require().NoError(s.run("collections", "db"))
	s.Equal("col\n", s.out.String())
}

func (s *CLITestSuite) TestFind() {
	s.Require().NoError(s.run("find", "db", "col", "--query", `{"a":{"$gt":0}}`, "--skip", "5", "--sort", `{"a":-1}`))
	s.Equal(`{"_id":{"$oid":"5f1d7a9c8e4b2a0012345678"},"a":1}`+"\n"+`{"a":2}`+"\n", s.out.String())

	r, _ := s.last()
	s.Equal(url.Values{
		domain.ParamAPIKey: {apiKey},
		"q":                {`{"a":{"$gt":0}}`},
		"s":                {`{"a":-1}`},
		"sk":               {"5"},
	}, r.URL.Query())
}

func (s *CLITestSuite) TestCount() {
	s.Require().NoError(s.run("count", "db", "col"))
	s.Equal("2\n", s.out.String())
}

func (s *CLITestSuite) TestInsert() {
	s.Require().NoError(s.run("insert", "db", "col", `{"a":1,"t":{"$date":"2020-01-02T03:04:05.000006Z"}}`))
	s.Equal(`{"_id":"x","a":1}`+"\n", s.out.String())

	_, body := s.last()
	s.JSONEq(`{"a":1,"t":{"$date":"2020-01-02T03:04:05.000006Z"}}`, body)
}

func (s *CLITestSuite) TestUpdate() {
	s.Require().NoError(s.run("update", "db", "col", `{}`, `{"$set":{"a":2}}`, "--multi"))
	s.Equal("2\n", s.out.String())

	r, _ := s.last()
	s.Equal("true", r.URL.Query().Get("m"))
	s.Equal("false", r.URL.Query().Get("u"))

	err := s.run("update", "db", "col", `{}`, `{"a":2}`)
	s.ErrorAs(err, new(domain.ErrInvalidUpdateOperator))
}

func (s *CLITestSuite) TestRemove() {
	s.Require().NoError(s.run("remove", "db", "col", "x"))
	s.Equal("1\n", s.out.String())
	r, _ := s.last()
	s.Equal(http.MethodDelete, r.Method)

	s.out.Reset()
	s.Require().NoError(s.run("remove", "db", "col", `{"a":1}`))
	s.Equal("2\n", s.out.String())
	r, body := s.last()
	s.Equal(http.MethodPut, r.Method)
	s.Equal(`{"a":1}`, r.URL.Query().Get("q"))
	s.JSONEq(`[]`, body)
}

func (s *CLITestSuite) TestCommand() {
	s.Require().NoError(s.run("command", "db", `{"ping":1}`))
	s.Equal(`{"ok":1}`+"\n", s.out.String())

	err := s.run("command", "db", `{"ping":`)
	s.ErrorContains(err, "invalid command")
}

func (s *CLITestSuite) TestAPIKeyFlagOverridesEnvironment() {
	err := s.run("--api-key", "0123456789abcdefghijklmn", "databases")
	s.ErrorAs(err, new(domain.ErrInvalidAPIKey))
	r, _ := s.last()
	s.Equal("0123456789abcdefghijklmn", r.URL.Query().Get(domain.ParamAPIKey))

	err = s.run("--api-key", "short", "databases")
	s.True(errdefs.IsInvalidArgument(err))
}

func (s *CLITestSuite) TestDebug() {
	s.Require().NoError(s.run("--debug", "databases"))
	s.Contains(s.errOut.String(), "request completed")
	s.Contains(s.errOut.String(), "****5678")
}

func (s *CLITestSuite) TestExplicitMissingConfig() {
	err := s.runWithConfig(filepath.Join(s.T().TempDir(), "missing.toml"), "databases")
	s.ErrorIs(err, fs.ErrNotExist)
	s.Empty(s.reqs)
}

func TestCLITestSuite(t *testing.T) {
	suite.Run(t, new(CLITestSuite))
}
