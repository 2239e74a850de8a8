package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/r9s-ai/findologic-api-go/pkg/definitions"
	"github.com/r9s-ai/findologic-api-go/pkg/httpclient"
)

// File is the YAML configuration read by the command line tool and the
// mock server.
type File struct {
	Client struct {
		Shopkey            string `yaml:"shopkey"`
		APIURL             string `yaml:"api_url"`
		AlivetestTimeoutMs int    `yaml:"alivetest_timeout_ms"`
		RequestTimeoutMs   int    `yaml:"request_timeout_ms"`

		// UpstreamProxy routes requests through a proxy, e.g.
		// "http://127.0.0.1:7890" or "socks5://127.0.0.1:1080".
		UpstreamProxy   string `yaml:"upstream_proxy"`
		RequestIDHeader string `yaml:"request_id_header"`
	} `yaml:"client"`

	MockServer struct {
		Listen      string `yaml:"listen"`
		FixturesDir string `yaml:"fixtures_dir"`

		// AutoReload watches fixtures_dir and reloads fixtures at runtime.
		AutoReload struct {
			Enabled    bool `yaml:"enabled"`
			DebounceMs int  `yaml:"debounce_ms"`
		} `yaml:"auto_reload"`
	} `yaml:"mock_server"`

	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Listen  string `yaml:"listen"`
	} `yaml:"metrics"`

	Logging struct {
		Level           string `yaml:"level"`
		AccessLog       bool   `yaml:"access_log"`
		AccessLogFormat string `yaml:"access_log_format"`
	} `yaml:"logging"`
}

// Load reads path (skipped when empty), then applies defaults and
// FINDOLOGIC_* environment overrides, then validates.
func Load(path string) (*File, error) {
	var f File
	if strings.TrimSpace(path) != "" {
		// #nosec G304 -- path is provided by trusted flag.
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &f); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	applyDefaults(&f)
	applyEnvOverrides(&f)
	if err := validate(&f); err != nil {
		return nil, err
	}
	return &f, nil
}

func applyDefaults(f *File) {
	if strings.TrimSpace(f.Client.APIURL) == "" {
		f.Client.APIURL = definitions.DefaultAPIURL
	}
	if f.Client.AlivetestTimeoutMs <= 0 {
		f.Client.AlivetestTimeoutMs = int(DefaultAlivetestTimeout / time.Millisecond)
	}
	if f.Client.RequestTimeoutMs <= 0 {
		f.Client.RequestTimeoutMs = int(DefaultRequestTimeout / time.Millisecond)
	}
	if strings.TrimSpace(f.MockServer.Listen) == "" {
		f.MockServer.Listen = ":8089"
	}
	if strings.TrimSpace(f.MockServer.FixturesDir) == "" {
		f.MockServer.FixturesDir = "./fixtures"
	}
	if f.MockServer.AutoReload.DebounceMs <= 0 {
		f.MockServer.AutoReload.DebounceMs = 300
	}
	if strings.TrimSpace(f.Metrics.Listen) == "" {
		f.Metrics.Listen = ":9464"
	}
	if f.Logging.Level == "" {
		f.Logging.Level = "info"
	}
}

func applyEnvOverrides(f *File) {
	if v := strings.TrimSpace(os.Getenv("FINDOLOGIC_SHOPKEY")); v != "" {
		f.Client.Shopkey = v
	}
	if v := strings.TrimSpace(os.Getenv("FINDOLOGIC_API_URL")); v != "" {
		f.Client.APIURL = v
	}
	if n, ok := envInt("FINDOLOGIC_ALIVETEST_TIMEOUT_MS"); ok && n > 0 {
		f.Client.AlivetestTimeoutMs = n
	}
	if n, ok := envInt("FINDOLOGIC_REQUEST_TIMEOUT_MS"); ok && n > 0 {
		f.Client.RequestTimeoutMs = n
	}
	if v, ok := os.LookupEnv("FINDOLOGIC_UPSTREAM_PROXY"); ok {
		// Allow unsetting by providing empty string.
		f.Client.UpstreamProxy = strings.TrimSpace(v)
	}
	if v := strings.TrimSpace(os.Getenv("FINDOLOGIC_MOCK_LISTEN")); v != "" {
		f.MockServer.Listen = v
	}
	if v := strings.TrimSpace(os.Getenv("FINDOLOGIC_MOCK_FIXTURES_DIR")); v != "" {
		f.MockServer.FixturesDir = v
	}
	f.MockServer.AutoReload.Enabled = envBool("FINDOLOGIC_MOCK_AUTO_RELOAD_ENABLED", f.MockServer.AutoReload.Enabled)
	f.Metrics.Enabled = envBool("FINDOLOGIC_METRICS_ENABLED", f.Metrics.Enabled)
	if v := strings.TrimSpace(os.Getenv("FINDOLOGIC_LOG_LEVEL")); v != "" {
		f.Logging.Level = v
	}
	f.Logging.AccessLog = envBool("FINDOLOGIC_ACCESS_LOG", f.Logging.AccessLog)
}

func envInt(name string) (int, bool) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envBool(name string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func validate(f *File) error {
	if v := f.Client.UpstreamProxy; v != "" && !strings.Contains(v, "://") {
		return errors.New("client.upstream_proxy must be a URL (e.g. http://127.0.0.1:7890)")
	}
	if f.MockServer.AutoReload.Enabled && strings.TrimSpace(f.MockServer.FixturesDir) == "" {
		return errors.New("mock_server.fixtures_dir is required when mock_server.auto_reload.enabled=true")
	}
	if _, err := ParseLevel(f.Logging.Level); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a logging.level value onto a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("logging.level %q is not one of debug, info, warn, error", s)
	}
	return lvl, nil
}

// ClientConfig builds the validated client Config described by the file.
// doer overrides the HTTP client; pass nil to build one honoring
// client.upstream_proxy.
func (f *File) ClientConfig(doer httpclient.HTTPDoer) (*Config, error) {
	return New(Options{
		Shopkey:          f.Client.Shopkey,
		APIURL:           f.Client.APIURL,
		AlivetestTimeout: time.Duration(f.Client.AlivetestTimeoutMs) * time.Millisecond,
		RequestTimeout:   time.Duration(f.Client.RequestTimeoutMs) * time.Millisecond,
		HTTPClient:       doer,
		ProxyURL:         f.Client.UpstreamProxy,
	})
}
