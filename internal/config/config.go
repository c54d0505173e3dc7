// Package config is used to configure the application settings.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/tailscale/hujson"
)

// Config - application configuration structure.
type Config struct {
	// Addr: address the panel server listens on (e.g., "localhost:3000").
	Addr string `json:"server_address"`
	// BaseURL: public origin of the site. When set, the Gone view builds page
	// URLs on it instead of the request host.
	BaseURL string `json:"base_url"`
	// BackendURL: site root serving the @redirects API.
	BackendURL string `json:"backend_url"`
	// UpstreamURL: CMS front end to proxy to. Empty disables the proxy.
	UpstreamURL string `json:"upstream_url"`
	// JournalFile: path to the file used for the activity journal.
	JournalFile string `json:"file_storage_path"`
	// DBConnection: database connection string.
	DBConnection string `json:"database_dsn"`
	// ConfigPath: path to configuration file.
	ConfigPath string `json:"-"`
	// Timeout: request timeout in seconds, for incoming and backend requests.
	Timeout int `json:"timeout"`
	// BatchSize: initial page size of the redirect list.
	BatchSize int `json:"batch_size"`
	// SessionTTL: minutes an idle panel session is kept.
	SessionTTL int `json:"session_ttl_minutes"`
	// CookieHashKey, CookieBlockKey: session cookie keys. Random when empty.
	CookieHashKey  string `json:"cookie_hash_key"`
	CookieBlockKey string `json:"cookie_block_key"`
}

var cfgDefault = Config{
	Addr:        "localhost:3000",
	BaseURL:     "",
	BackendURL:  "http://localhost:8080/Plone",
	Timeout:     15,
	BatchSize:   25,
	SessionTTL:  60,
	JournalFile: "",
}

// NewConfig returns a new Config holding the default values.
func NewConfig() *Config {
	c := cfgDefault
	return &c
}

// RequestTimeout returns Timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// SessionIdle returns SessionTTL as a duration.
func (c *Config) SessionIdle() time.Duration {
	return time.Duration(c.SessionTTL) * time.Minute
}

// ErrReadConfig - error reading json config.
var ErrReadConfig = errors.New("reading json config")

// ErrParseConfig - error parsing json config.
var ErrParseConfig = errors.New("parse json config")

// ApplyEnv overrides c with the environment.
func ApplyEnv(c *Config) {
	strVars := map[string]*string{
		"SERVER_ADDRESS":    &c.Addr,
		"BASE_URL":          &c.BaseURL,
		"BACKEND_URL":       &c.BackendURL,
		"UPSTREAM_URL":      &c.UpstreamURL,
		"FILE_STORAGE_PATH": &c.JournalFile,
		"DATABASE_DSN":      &c.DBConnection,
		"COOKIE_HASH_KEY":   &c.CookieHashKey,
		"COOKIE_BLOCK_KEY":  &c.CookieBlockKey,
		"CONFIG":            &c.ConfigPath,
	}
	for name, dst := range strVars {
		if val, exist := os.LookupEnv(name); exist {
			*dst = val
		}
	}

	intVars := map[string]*int{
		"REQUEST_TIMEOUT":     &c.Timeout,
		"BATCH_SIZE":          &c.BatchSize,
		"SESSION_TTL_MINUTES": &c.SessionTTL,
	}
	for name, dst := range intVars {
		if val, exist := os.LookupEnv(name); exist {
			if n, err := strconv.Atoi(val); err == nil {
				*dst = n
			}
		}
	}
}

// LoadFile reads a JSON config file into c. Comments and trailing commas are allowed.
func LoadFile(c *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadConfig, err)
	}
	data, err = hujson.Standardize(data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrParseConfig, err)
	}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("%w: %v", ErrParseConfig, err)
	}
	return nil
}

// Init initializes the configuration from environment variables, command-line
// arguments and the config file. Explicit flags win over the file.
func Init(c *Config, args []string) error {
	ApplyEnv(c)

	var flagCgf Config
	fs := flag.NewFlagSet("redirector", flag.ContinueOnError)
	fs.StringVar(&flagCgf.Addr, "a", "", "HTTP-server startup address")
	fs.StringVar(&flagCgf.BaseURL, "b", "", "public URL of the control panel")
	fs.StringVar(&flagCgf.BackendURL, "r", "", "site root serving the @redirects API")
	fs.StringVar(&flagCgf.UpstreamURL, "u", "", "CMS front end to proxy other requests to")
	fs.StringVar(&flagCgf.JournalFile, "f", "", "path to the journal file (JSON lines)")
	fs.StringVar(&flagCgf.DBConnection, "d", "", "database connection address")
	fs.IntVar(&flagCgf.Timeout, "t", 0, "request timeout in seconds")
	fs.StringVar(&flagCgf.ConfigPath, "c", "", "path to config file (json)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if flagCgf.ConfigPath != "" {
		c.ConfigPath = flagCgf.ConfigPath
	}
	if c.ConfigPath != "" {
		if err := LoadFile(c, c.ConfigPath); err != nil {
			return err
		}
	}

	// override
	if flagCgf.Addr != "" {
		c.Addr = flagCgf.Addr
	}
	if flagCgf.BaseURL != "" {
		c.BaseURL = flagCgf.BaseURL
	}
	if flagCgf.BackendURL != "" {
		c.BackendURL = flagCgf.BackendURL
	}
	if flagCgf.UpstreamURL != "" {
		c.UpstreamURL = flagCgf.UpstreamURL
	}
	if flagCgf.JournalFile != "" {
		c.JournalFile = flagCgf.JournalFile
	}
	if flagCgf.DBConnection != "" {
		c.DBConnection = flagCgf.DBConnection
	}
	if flagCgf.Timeout > 0 {
		c.Timeout = flagCgf.Timeout
	}

	return nil
}
