package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/centraunit/headless/config"
	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
}

func (s *ConfigTestSuite) writeFile(body string) string {
	path := filepath.Join(s.T().TempDir(), "headless.yaml")
	s.Require().NoError(os.WriteFile(path, []byte(body), 0o600))
	return path
}

func (s *ConfigTestSuite) TestLoadAppliesDefaults() {
	path := s.writeFile(`
session:
  client_id: client-1
`)
	cfg, err := config.Load(path)
	s.Require().NoError(err)

	s.Equal(":8080", cfg.Server.Addr)
	s.Equal(10*time.Second, cfg.Server.ShutdownTimeout.Std())
	s.Equal("headless-session", cfg.Session.CookieName)
	s.Equal("info", cfg.Log.Level)
}

func (s *ConfigTestSuite) TestLoadFullFile() {
	path := s.writeFile(`
server:
  addr: ":9090"
  shutdown_timeout: 5s
redis:
  addr: "localhost:6379"
  db: 2
session:
  client_id: client-1
  cookie_name: my-session
log:
  level: debug
`)
	cfg, err := config.Load(path)
	s.Require().NoError(err)

	s.Equal(":9090", cfg.Server.Addr)
	s.Equal(5*time.Second, cfg.Server.ShutdownTimeout.Std())
	s.Equal("localhost:6379", cfg.Redis.Addr)
	s.Equal(2, cfg.Redis.DB)
	s.Equal("my-session", cfg.Session.CookieName)
	s.Equal("debug", cfg.Log.Level)
}

func (s *ConfigTestSuite) TestMissingClientID() {
	path := s.writeFile(`
server:
  addr: ":9090"
`)
	_, err := config.Load(path)
	var missing *config.MissingFieldError
	s.Require().True(errors.As(err, &missing))
	s.Equal("session.client_id", missing.Field)
}

func (s *ConfigTestSuite) TestEnvOverrides() {
	s.T().Setenv("HEADLESS_ADDR", ":7070")
	s.T().Setenv("HEADLESS_CLIENT_ID", "env-client")

	cfg, err := config.Load("")
	s.Require().NoError(err)
	s.Equal(":7070", cfg.Server.Addr)
	s.Equal("env-client", cfg.Session.ClientID)
}

func (s *ConfigTestSuite) TestServiceBlockDecoding() {
	path := s.writeFile(`
session:
  client_id: client-1
services:
  catalog:
    collection_id: featured
    page_size: 24
    refresh_interval: 30s
`)
	cfg, err := config.Load(path)
	s.Require().NoError(err)

	var catalog struct {
		CollectionID    string        `mapstructure:"collection_id"`
		PageSize        int           `mapstructure:"page_size"`
		RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	}
	s.Require().NoError(cfg.Service("catalog", &catalog))
	s.Equal("featured", catalog.CollectionID)
	s.Equal(24, catalog.PageSize)
	s.Equal(30*time.Second, catalog.RefreshInterval)

	err = cfg.Service("bookings", &catalog)
	var unknown *config.UnknownServiceError
	s.True(errors.As(err, &unknown))
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}
