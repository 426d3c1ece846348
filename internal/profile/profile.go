package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where noteshub stores its own data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string
	// InstanceURL is the public url of your noteshub instance.
	InstanceURL string
	// Secret signs session access tokens.
	Secret string

	// Cover resolution configuration
	CoversEnabled         bool // NOTESHUB_COVERS_ENABLED (default: true)
	CoversOKCooldownMin   int  // NOTESHUB_COVERS_OK_TTL_MIN (default: 1440)
	CoversFailCooldownMin int  // NOTESHUB_COVERS_FAIL_TTL_MIN (default: 360)

	// OAuth sign-in configuration (optional)
	OAuthClientID     string // NOTESHUB_OAUTH_CLIENT_ID
	OAuthClientSecret string // NOTESHUB_OAUTH_CLIENT_SECRET
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnvOrDefault returns the environment variable parsed as int, or the
// default value when unset or unparsable.
func getIntEnvOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// FromEnv loads configuration from environment variables.
func (p *Profile) FromEnv() {
	// The covers pipeline is on unless explicitly switched off.
	p.CoversEnabled = getEnvOrDefault("NOTESHUB_COVERS_ENABLED", "1") != "0"
	p.CoversOKCooldownMin = getIntEnvOrDefault("NOTESHUB_COVERS_OK_TTL_MIN", 24*60)
	p.CoversFailCooldownMin = getIntEnvOrDefault("NOTESHUB_COVERS_FAIL_TTL_MIN", 6*60)

	p.OAuthClientID = os.Getenv("NOTESHUB_OAUTH_CLIENT_ID")
	p.OAuthClientSecret = os.Getenv("NOTESHUB_OAUTH_CLIENT_SECRET")

	if v := os.Getenv("NOTESHUB_INSTANCE_URL"); v != "" {
		p.InstanceURL = v
	}
	if v := os.Getenv("NOTESHUB_SECRET"); v != "" {
		p.Secret = v
	}
}

// Validate normalizes and validates the profile, resolving the data
// directory to an absolute path.
func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}
	if p.Mode == "prod" && p.Data == "" {
		p.Data = "/var/opt/noteshub"
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		return errors.Wrapf(err, "invalid data directory %q", p.Data)
	}
	p.Data = dataDir

	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("noteshub_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}
	if p.Driver != "sqlite" && p.Driver != "postgres" {
		return errors.Errorf("unsupported database driver %q", p.Driver)
	}
	if p.InstanceURL == "" {
		p.InstanceURL = fmt.Sprintf("http://localhost:%d", p.Port)
	}
	p.InstanceURL = strings.TrimSuffix(p.InstanceURL, "/")
	return nil
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}
	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")

	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}
