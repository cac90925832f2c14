package core

import (
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Env          string // DEV (local; default), TEST, QA, PROD
		Build        string
		Debug        bool
		TestMode     bool
		AppName      string
		SecretKey    string
		RollbarToken string

		Server   ServerConfig
		Database DatabaseConfig
		Cache    CacheConfig
		Portal   PortalConfig
	}

	ServerConfig struct {
		Address          string
		Host             string
		DebugAddress     string
		ShutdownTimeout  time.Duration
		ReadTimeout      time.Duration
		WriteTimeout     time.Duration
		DisableReqLogs   bool
		SessionExpiresIn time.Duration
	}

	DatabaseConfig struct {
		Engine        string // memory | postgres
		Host          string
		Port          string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
		Seed          bool          // memory only: load fixtures on open
		Latency       time.Duration // memory only: simulated accessor latency
	}

	CacheConfig struct {
		RedisAddress  string // empty: in-process cache
		RedisPassword string
		RedisDB       int
		TTL           time.Duration
	}

	// PortalConfig holds the identities used when a request carries no session token.
	PortalConfig struct {
		ProfessorID string
		StudentID   string
	}
)

func (dc DatabaseConfig) Address() string {
	return net.JoinHostPort(dc.Host, dc.Port)
}

func (dc DatabaseConfig) InMemory() bool {
	return dc.Engine == "" || dc.Engine == "memory"
}

func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("build", "dev")
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "Dynamic LMS")
	v.SetDefault("secretKey", "k2c$7#x!l9qv(4mh_0=wd8r&u+e3a@zt6s^y1bn%o5fjg*cp")
	v.SetDefault("rollbarToken", "")

	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.debugAddress", ":4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.readTimeout", 5*time.Second)
	v.SetDefault("server.writeTimeout", 5*time.Second)
	v.SetDefault("server.disableReqLogs", false)
	v.SetDefault("server.sessionExpiresIn", 7*24*time.Hour)

	v.SetDefault("database.engine", "memory")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "lms")
	v.SetDefault("database.user", "lms")
	v.SetDefault("database.password", "lms")
	v.SetDefault("database.adminUser", "postgres")
	v.SetDefault("database.adminPassword", "postgres")
	v.SetDefault("database.disableTLS", true)
	v.SetDefault("database.seed", true)
	v.SetDefault("database.latency", time.Duration(0))

	v.SetDefault("cache.redisAddress", "")
	v.SetDefault("cache.redisPassword", "")
	v.SetDefault("cache.redisDB", 0)
	v.SetDefault("cache.ttl", time.Minute)

	v.SetDefault("portal.professorID", "prof-1")
	v.SetDefault("portal.studentID", "student-1")

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	if wd, err := os.Getwd(); err == nil {
		dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
		if _, err := os.Stat(dotEnvPath); err == nil {
			if err := godotenv.Load(dotEnvPath); err != nil {
				log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
			}
		} else if !os.IsNotExist(err) {
			log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
		}
	}
	v.AutomaticEnv()

	return &Config{
		Env:          env,
		Build:        v.GetString("build"),
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		AppName:      v.GetString("appName"),
		SecretKey:    v.GetString("secretKey"),
		RollbarToken: v.GetString("rollbarToken"),
		Server: ServerConfig{
			Address:          v.GetString("server.address"),
			Host:             v.GetString("server.host"),
			DebugAddress:     v.GetString("server.debugAddress"),
			ShutdownTimeout:  v.GetDuration("server.shutdownTimeout"),
			ReadTimeout:      v.GetDuration("server.readTimeout"),
			WriteTimeout:     v.GetDuration("server.writeTimeout"),
			DisableReqLogs:   v.GetBool("server.disableReqLogs"),
			SessionExpiresIn: v.GetDuration("server.sessionExpiresIn"),
		},
		Database: DatabaseConfig{
			Engine:        strings.ToLower(v.GetString("database.engine")),
			Host:          v.GetString("database.host"),
			Port:          v.GetString("database.port"),
			Name:          v.GetString("database.name"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			DisableTLS:    v.GetBool("database.disableTLS"),
			Seed:          v.GetBool("database.seed"),
			Latency:       v.GetDuration("database.latency"),
		},
		Cache: CacheConfig{
			RedisAddress:  v.GetString("cache.redisAddress"),
			RedisPassword: v.GetString("cache.redisPassword"),
			RedisDB:       v.GetInt("cache.redisDB"),
			TTL:           v.GetDuration("cache.ttl"),
		},
		Portal: PortalConfig{
			ProfessorID: v.GetString("portal.professorID"),
			StudentID:   v.GetString("portal.studentID"),
		},
	}
}

// NewTestConfig returns a Config suitable for tests: in-memory seeded store, no request logs.
func NewTestConfig() *Config {
	return &Config{
		Env:       "TEST",
		Build:     "test",
		Debug:     false,
		TestMode:  true,
		AppName:   "Dynamic LMS",
		SecretKey: "secret",
		Server: ServerConfig{
			Address:          ":0",
			Host:             "localhost",
			ShutdownTimeout:  time.Second,
			DisableReqLogs:   true,
			SessionExpiresIn: time.Hour,
		},
		Database: DatabaseConfig{Engine: "memory", Seed: true},
		Cache:    CacheConfig{TTL: time.Minute},
		Portal:   PortalConfig{ProfessorID: "prof-1", StudentID: "student-1"},
	}
}

func (c *Config) String() string {
	return fmt.Sprintf("env=%s build=%s debug=%t db=%s", c.Env, c.Build, c.Debug, c.Database.Engine)
}
