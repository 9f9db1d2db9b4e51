package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every externally tunable setting. The API base URL is the
// only setting the backend contract cares about; the rest tune the client
// itself (idle timeout, session persistence, error reporting).
type Config struct {
	Debug    bool
	TestMode bool
	Env      string
	Build    string
	AppName  string

	// APIBaseURL selects which API instance is targeted,
	// e.g. http://localhost:8000/api
	APIBaseURL string

	// IdleTimeout is the period of zero user activity after which the
	// session is forcibly ended.
	IdleTimeout time.Duration

	// SessionCheckInterval is the cadence of the periodic expiry re-check
	// that backs up the event-driven idle monitor.
	SessionCheckInterval time.Duration

	// SessionFile is where the authenticated session is persisted between
	// runs.
	SessionFile string

	RequestTimeout time.Duration
	RollbarToken   string
}

func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "Notas")
	conf.SetDefault("build", "dev")
	conf.SetDefault("apiBaseUrl", "http://localhost:8000/api")
	conf.SetDefault("idleTimeout", 10*time.Minute)
	conf.SetDefault("sessionCheckInterval", time.Minute)
	conf.SetDefault("sessionFile", defaultSessionFile())
	conf.SetDefault("requestTimeout", 30*time.Second)
	conf.SetDefault("rollbarToken", "")

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		Debug:                conf.GetBool("debug"),
		TestMode:             conf.GetBool("testMode"),
		Env:                  env,
		Build:                conf.GetString("build"),
		AppName:              conf.GetString("appName"),
		APIBaseURL:           strings.TrimRight(conf.GetString("apiBaseUrl"), "/"),
		IdleTimeout:          conf.GetDuration("idleTimeout"),
		SessionCheckInterval: conf.GetDuration("sessionCheckInterval"),
		SessionFile:          conf.GetString("sessionFile"),
		RequestTimeout:       conf.GetDuration("requestTimeout"),
		RollbarToken:         conf.GetString("rollbarToken"),
	}
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = Getwd()
	}
	return filepath.Join(dir, "notas", "session.json")
}

// Getwd returns the current working directory; "." on error.
func Getwd() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}
