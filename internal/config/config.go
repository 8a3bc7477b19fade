// Package config loads process-wide configuration. The resulting Config is
// built once at startup, validated, and treated as read-only by every
// component that receives it.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Rendering formats accepted for bot.format.
const (
	FormatConcise = "concise"
	FormatVerbose = "verbose"
)

// Config holds all configuration for the bot process.
type Config struct {
	Jira     JiraConfig
	Bot      BotConfig
	Points   PointsConfig
	Projects ProjectsConfig
	HTTP     HTTPConfig
	Storage  StorageConfig
}

// JiraConfig holds tracker connection settings.
type JiraConfig struct {
	// Site is the tracker base URL, normalized to end with a slash.
	Site string
	// Context is an optional URL sub-path prefix under Site, normalized to
	// end with a slash when non-empty.
	Context  string
	Username string
	Password string
	// Token selects personal-access-token auth instead of basic auth.
	Token string
	// UseSSL picks the scheme when Site is configured without one.
	UseSSL bool
}

// BotConfig holds chat-side behavior settings.
type BotConfig struct {
	// Handle is the mention name that addresses the bot in a room.
	Handle string
	// Format is the reply rendering mode: concise or verbose.
	Format string
	// Ambient enables passive issue-key detection in ordinary messages.
	Ambient bool
	// Ignore lists users (by id, mention name, or display name) whose
	// messages never trigger ambient replies.
	Ignore []string
	// Rooms, when non-empty, restricts ambient replies to the listed rooms.
	Rooms []string
}

// PointsConfig controls the story-points command.
type PointsConfig struct {
	// Field is the tracker custom-field id holding story points.
	Field string
	// Enabled wires the point command into dispatch. It is off by default
	// and must be turned on explicitly.
	Enabled bool
}

// ProjectsConfig holds issue-creation routing rules.
type ProjectsConfig struct {
	// Overrides maps a project key parsed from a todo command to the
	// project actually used for creation. The key "*" applies to every
	// project without a more specific entry.
	Overrides map[string]string
}

// HTTPConfig holds the webhook listener settings.
type HTTPConfig struct {
	Addr string
}

// StorageConfig holds identity persistence settings.
type StorageConfig struct {
	// Path is the sqlite database file for identity mappings. Empty selects
	// the in-memory store.
	Path string
}

// Load reads configuration from the optional file at path and from
// JIRABOT_-prefixed environment variables, applies defaults, and validates
// the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("JIRABOT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("jira.use_ssl", true)
	v.SetDefault("bot.handle", "lita")
	v.SetDefault("bot.format", FormatVerbose)
	v.SetDefault("bot.ambient", false)
	v.SetDefault("points.enabled", false)
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("storage.path", "lita-jira.db")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Jira: JiraConfig{
			Site:     v.GetString("jira.site"),
			Context:  v.GetString("jira.context"),
			Username: v.GetString("jira.username"),
			Password: v.GetString("jira.password"),
			Token:    v.GetString("jira.token"),
			UseSSL:   v.GetBool("jira.use_ssl"),
		},
		Bot: BotConfig{
			Handle:  v.GetString("bot.handle"),
			Format:  v.GetString("bot.format"),
			Ambient: v.GetBool("bot.ambient"),
			Ignore:  splitList(v.GetStringSlice("bot.ignore")),
			Rooms:   splitList(v.GetStringSlice("bot.rooms")),
		},
		Points: PointsConfig{
			Field:   v.GetString("points.field"),
			Enabled: v.GetBool("points.enabled"),
		},
		Projects: ProjectsConfig{
			Overrides: v.GetStringMapString("projects.overrides"),
		},
		HTTP: HTTPConfig{
			Addr: v.GetString("http.addr"),
		},
		Storage: StorageConfig{
			Path: v.GetString("storage.path"),
		},
	}

	normalize(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// normalize applies scheme and slash conventions so the browse URL is always
// Site + Context + "browse/" + key by plain concatenation.
func normalize(cfg *Config) {
	site := strings.TrimSpace(cfg.Jira.Site)
	if site != "" && !strings.Contains(site, "://") {
		scheme := "https"
		if !cfg.Jira.UseSSL {
			scheme = "http"
		}
		site = scheme + "://" + site
	}
	if site != "" && !strings.HasSuffix(site, "/") {
		site += "/"
	}
	cfg.Jira.Site = site

	context := strings.Trim(strings.TrimSpace(cfg.Jira.Context), "/")
	if context != "" {
		context += "/"
	}
	cfg.Jira.Context = context

	// viper lowercases map keys read from config files; override keys are
	// project keys and must match the uppercase keys the patterns capture.
	if len(cfg.Projects.Overrides) > 0 {
		overrides := make(map[string]string, len(cfg.Projects.Overrides))
		for project, forced := range cfg.Projects.Overrides {
			overrides[strings.ToUpper(project)] = forced
		}
		cfg.Projects.Overrides = overrides
	}
}

func validate(cfg *Config) error {
	var missing []string
	if cfg.Jira.Site == "" {
		missing = append(missing, "jira.site")
	}
	if cfg.Jira.Token == "" {
		if cfg.Jira.Username == "" {
			missing = append(missing, "jira.username")
		}
		if cfg.Jira.Password == "" {
			missing = append(missing, "jira.password")
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if cfg.Bot.Format != FormatConcise && cfg.Bot.Format != FormatVerbose {
		return fmt.Errorf("invalid bot.format %q: must be %q or %q", cfg.Bot.Format, FormatConcise, FormatVerbose)
	}

	return nil
}

// splitList expands comma-separated entries, so the list options work both
// as YAML sequences and as single environment variables.
func splitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
