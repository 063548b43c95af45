package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all service configuration. Loaded once at startup,
// read-only afterwards.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Showdown connection
	Showdown ShowdownConfig

	// Webhook routing
	Webhook WebhookConfig

	// GitHub metadata API (optional)
	GitHubAPI GitHubAPIConfig

	// Display alias tables
	UsernameAliases UsernameAliases

	rooms map[string]RoomConfiguration
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

// ShowdownConfig holds the persistent connection settings.
type ShowdownConfig struct {
	Server      string // websocket URL, e.g. wss://sim3.psim.us/showdown/websocket
	LoginServer string // assertion endpoint, e.g. https://play.pokemonshowdown.com/action.php
	User        string
	Password    string
}

// WebhookConfig holds webhook verification and routing settings.
type WebhookConfig struct {
	Secret          string // default shared secret; empty disables verification
	DefaultRoom     string // fallback room when a repository has no entry
	RateLimitPerMin int    // 0 disables per-repository rate limiting
}

type GitHubAPIConfig struct {
	User     string
	Password string
}

// RoomConfiguration maps one repository to its destination rooms. An
// empty Secret falls back to the default webhook secret. Rooms listed
// in Simple receive a plain-text rendition instead of HTML.
type RoomConfiguration struct {
	Rooms  []string `json:"rooms"`
	Secret string   `json:"secret"`
	Simple []string `json:"simple"`
}

// Route is the resolved destination for one repository.
type Route struct {
	Rooms  []string
	Secret string
	simple map[string]struct{}
}

// IsSimple reports whether the given room wants plain-text messages.
func (r Route) IsSimple(room string) bool {
	_, ok := r.simple[room]
	return ok
}

// RouteFor resolves the destination rooms and verification secret for
// a repository full name (exact match, else the default room).
func (c *Config) RouteFor(fullName string) Route {
	if rc, ok := c.rooms[fullName]; ok {
		secret := rc.Secret
		if secret == "" {
			secret = c.Webhook.Secret
		}
		simple := make(map[string]struct{}, len(rc.Simple))
		for _, room := range rc.Simple {
			simple[room] = struct{}{}
		}
		return Route{Rooms: rc.Rooms, Secret: secret, simple: simple}
	}
	route := Route{Secret: c.Webhook.Secret}
	if c.Webhook.DefaultRoom != "" {
		route.Rooms = []string{c.Webhook.DefaultRoom}
	}
	return route
}

// AllRooms returns the deduplicated union of every configured room,
// used for the join commands sent after authentication.
func (c *Config) AllRooms() []string {
	seen := make(map[string]struct{})
	var rooms []string
	add := func(room string) {
		if room == "" {
			return
		}
		if _, ok := seen[room]; ok {
			return
		}
		seen[room] = struct{}{}
		rooms = append(rooms, room)
	}
	add(c.Webhook.DefaultRoom)
	for _, rc := range c.rooms {
		for _, room := range rc.Rooms {
			add(room)
		}
	}
	return rooms
}

// UsernameAliases maps GitHub logins to display aliases,
// case-insensitively on the login.
type UsernameAliases map[string]string

// Get returns the alias for a login, or the login itself when no alias
// is configured.
func (a UsernameAliases) Get(login string) string {
	if alias, ok := a[strings.ToLower(login)]; ok {
		return alias
	}
	return login
}

// Load loads configuration using Viper.
// Config file name: config.yaml — searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/app/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	// Showdown connection
	cfg.Showdown.Server = viper.GetString("showdown.server")
	cfg.Showdown.LoginServer = viper.GetString("showdown.login_server")
	cfg.Showdown.User = viper.GetString("showdown.user")
	cfg.Showdown.Password = viper.GetString("showdown.password")

	// Webhook routing
	cfg.Webhook.Secret = viper.GetString("webhook.secret")
	cfg.Webhook.DefaultRoom = viper.GetString("webhook.default_room")
	cfg.Webhook.RateLimitPerMin = viper.GetInt("webhook.rate_limit_per_min")

	// Per-repository room table: JSON object keyed by repository full
	// name, matching the shape of RoomConfiguration.
	if raw := viper.GetString("webhook.rooms"); raw != "" {
		rooms := make(map[string]RoomConfiguration)
		if err := json.Unmarshal([]byte(raw), &rooms); err != nil {
			return nil, fmt.Errorf("webhook.rooms is not valid JSON: %w", err)
		}
		cfg.rooms = rooms
	}

	// GitHub metadata API (optional; both must be set)
	cfg.GitHubAPI.User = viper.GetString("github_api.user")
	cfg.GitHubAPI.Password = viper.GetString("github_api.password")

	// Username aliases: JSON object login → display name.
	if raw := viper.GetString("username_aliases"); raw != "" {
		aliases := make(map[string]string)
		if err := json.Unmarshal([]byte(raw), &aliases); err != nil {
			return nil, fmt.Errorf("username_aliases is not valid JSON: %w", err)
		}
		cfg.UsernameAliases = make(UsernameAliases, len(aliases))
		for login, alias := range aliases {
			cfg.UsernameAliases[strings.ToLower(login)] = alias
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Showdown.Server == "" {
		return fmt.Errorf("showdown.server is required")
	}
	if c.Showdown.User == "" || c.Showdown.Password == "" {
		return fmt.Errorf("showdown.user and showdown.password are required")
	}
	if c.Webhook.DefaultRoom == "" && len(c.rooms) == 0 {
		return fmt.Errorf("at least one of webhook.default_room or webhook.rooms must be provided")
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 3030)
	viper.SetDefault("http_server.mode", "release")
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.mode", "production")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", false)
	viper.SetDefault("showdown.login_server", "https://play.pokemonshowdown.com/action.php")
	viper.SetDefault("webhook.rate_limit_per_min", 0)
}

// NewForTest builds a Config directly from parts, bypassing viper.
// Test helper; not used by production code paths.
func NewForTest(defaultRoom, secret string, rooms map[string]RoomConfiguration, aliases map[string]string) *Config {
	cfg := &Config{rooms: rooms}
	cfg.Webhook.DefaultRoom = defaultRoom
	cfg.Webhook.Secret = secret
	if len(aliases) > 0 {
		cfg.UsernameAliases = make(UsernameAliases, len(aliases))
		for login, alias := range aliases {
			cfg.UsernameAliases[strings.ToLower(login)] = alias
		}
	}
	return cfg
}
