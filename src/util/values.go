package util

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	DefaultImage        = "dsa_sandbox"
	DefaultWorkDir      = "/home/user"
	DefaultDBMS         = "sqlite3"
	DefaultBuildTimeout = 30 * time.Second
	DefaultGrace        = 5 * time.Second
	DefaultPidsLimit    = 1024
)

// Config ... resolved settings of one process. flags override .env values
type Config struct {
	Image          string
	WorkDir        string
	DockerAPI      string // empty means negotiate
	PidsLimit      int64
	DBMS           string
	BuildTimeout   time.Duration
	Grace          time.Duration
	Policy         string
	WorkspaceRoot  string
	GCSCredentials string
	NatsURL        string
	NatsSubject    string
	LogLevel       string
}

func DefaultConfig() Config {
	return Config{
		Image:        DefaultImage,
		WorkDir:      DefaultWorkDir,
		PidsLimit:    DefaultPidsLimit,
		DBMS:         DefaultDBMS,
		BuildTimeout: DefaultBuildTimeout,
		Grace:        DefaultGrace,
		Policy:       "last",
		LogLevel:     "info",
	}
}

func (c Config) Validate() error {
	if c.Image == "" {
		return errors.New("sandbox image must not be empty")
	}
	if c.BuildTimeout <= 0 {
		return errors.Errorf("build timeout must be positive, got %s", c.BuildTimeout)
	}
	if c.Grace < 0 {
		return errors.Errorf("grace must not be negative, got %s", c.Grace)
	}
	if c.Policy != "last" && c.Policy != "worst" {
		return errors.Errorf("unknown verdict policy %q", c.Policy)
	}
	switch c.DBMS {
	case "sqlite3", "mysql", "postgres":
	default:
		return errors.Errorf("unsupported DBMS %q", c.DBMS)
	}
	if c.NatsSubject != "" && c.NatsURL == "" {
		return errors.New("nats subject given without nats url")
	}
	return nil
}

// LoadEnv reads path into the process environment. a missing file is not an error
func LoadEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(err, "failed to load %s", path)
	}
	return nil
}
