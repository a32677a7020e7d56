package main

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
	dir string
	env map[string]string
}

func (s *ConfigTestSuite) SetupTest() {
	s.dir = s.T().TempDir()
	s.env = map[string]string{}
}

func (s *ConfigTestSuite) getenv(k string) string {
	return s.env[k]
}

func (s *ConfigTestSuite) write(content string) string {
	path := filepath.Join(s.dir, "config.toml")
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o600))
	return path
}

func (s *ConfigTestSuite) TestFile() {
	path := s.write(`
api_key = "4f2a8c1e9b3d7a0012345678"
version = "v1"
proxy_url = "http://proxy:3128"
base_url = "http://localhost/api/1/"
timeout = "5s"
`)
	cfg, err := LoadConfig(path, true, s.getenv)
	s.NoError(err)
	s.Equal(Config{
		APIKey:   "4f2a8c1e9b3d7a0012345678",
		Version:  "v1",
		ProxyURL: "http://proxy:3128",
		BaseURL:  "http://localhost/api/1/",
		Timeout:  "5s",
	}, cfg)

	d, err := cfg.TimeoutDuration()
	s.NoError(err)
	s.Equal(5*time.Second, d)
}

func (s *ConfigTestSuite) TestEnvironmentOverridesFile() {
	path := s.write(`
api_key = "from-file"
proxy_url = "http://file:3128"
`)
	s.env[envAPIKey] = "from-env"
	s.env[envProxyURL] = "http://env:3128"

	cfg, err := LoadConfig(path, true, s.getenv)
	s.NoError(err)
	s.Equal("from-env", cfg.APIKey)
	s.Equal("http://env:3128", cfg.ProxyURL)
	s.Equal("v1", cfg.Version)
}

func (s *ConfigTestSuite) TestMissingFile() {
	path := filepath.Join(s.dir, "missing.toml")

	cfg, err := LoadConfig(path, false, s.getenv)
	s.NoError(err)
	s.Equal(Config{Version: "v1"}, cfg)

	_, err = LoadConfig(path, true, s.getenv)
	s.ErrorIs(err, fs.ErrNotExist)

	cfg, err = LoadConfig("", false, s.getenv)
	s.NoError(err)
	s.Equal(Config{Version: "v1"}, cfg)
}

func (s *ConfigTestSuite) TestInvalid() {
	path := s.write(`api_key = `)
	_, err := LoadConfig(path, true, s.getenv)
	s.Error(err)

	_, err = Config{Timeout: "soon"}.TimeoutDuration()
	s.ErrorContains(err, `invalid timeout "soon"`)

	d, err := Config{}.TimeoutDuration()
	s.NoError(err)
	s.Zero(d)
}

func TestConfigTestSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}
