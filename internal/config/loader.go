package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

// Load reads the YAML config file, then overrides via .env and environment
// variables. Env overrides are applied to the first item in each list for
// minimal usage.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := ReadEnv(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	v := viper.New()
	v.SetConfigType("yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data = []byte(os.ExpandEnv(string(data)))
	if err := v.ReadConfig(bytes.NewBuffer(data)); err != nil {
		return nil, err
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the pipeline cannot run with. These are
// the only fatal errors: anything past this point degrades per target.
func (c *Config) Validate() error {
	if len(c.Sources) == 0 {
		return errors.New("no sources configured")
	}
	for i, s := range c.Sources {
		switch s.Type {
		case "pc_service":
			if s.Command == "" {
				return fmt.Errorf("source[%d] %q: pc_service requires command", i, s.Name)
			}
		case "pc_repository":
			if s.DSN == "" {
				return fmt.Errorf("source[%d] %q: pc_repository requires dsn", i, s.Name)
			}
		case "mdm_apps":
			if s.URL == "" {
				return fmt.Errorf("source[%d] %q: mdm_apps requires url", i, s.Name)
			}
		case "mdm_jobs":
			if s.DSN == "" {
				return fmt.Errorf("source[%d] %q: mdm_jobs requires dsn", i, s.Name)
			}
			if len(s.Groups) == 0 {
				return fmt.Errorf("source[%d] %q: mdm_jobs requires groups", i, s.Name)
			}
		case "host":
		default:
			return fmt.Errorf("unknown source type at index %d (name=%q): %q", i, s.Name, s.Type)
		}
	}
	for i, ch := range c.Channels {
		switch ch.Type {
		case "teams", "webhook":
			if ch.URL == "" {
				return fmt.Errorf("channel[%d] %q: missing url", i, ch.Name)
			}
		default:
			return fmt.Errorf("unknown channel type at index %d (name=%q): %q", i, ch.Name, ch.Type)
		}
	}
	known := make(map[string]bool, len(c.Channels))
	for _, ch := range c.Channels {
		known[ch.Name] = true
	}
	for i, r := range c.Routes {
		for _, to := range r.To {
			if !known[to] {
				return fmt.Errorf("route[%d]: unknown channel %q", i, to)
			}
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if hasAnyEnv(sourceEnvKeys()) {
		var sc SourceConfig
		if err := envconfig.Process("", &sc); err == nil {
			applySourceOverrides(cfg, sc)
		}
	}
	if hasAnyEnv(policyEnvKeys()) {
		var pc PolicyConfig
		if err := envconfig.Process("", &pc); err == nil {
			applyPolicyOverrides(cfg, pc)
		}
	}
	if hasAnyEnv(channelEnvKeys()) {
		var cc ChannelConfig
		if err := envconfig.Process("", &cc); err == nil {
			applyChannelOverrides(cfg, cc)
		}
	}
	if hasAnyEnv(routeEnvKeys()) {
		var rm RouteMatch
		if err := envconfig.Process("", &rm); err == nil {
			applyRouteOverrides(cfg, rm)
		}
		if raw, ok := os.LookupEnv("ROUTE_TO"); ok {
			applyRouteToOverrides(cfg, raw)
		}
	}
	if hasAnyEnv(logEnvKeys()) {
		var lc LogConfig
		if err := envconfig.Process("", &lc); err == nil {
			applyLogOverrides(cfg, lc)
		}
	}
	if envNonEmpty("SCHEDULE") {
		cfg.Schedule = os.Getenv("SCHEDULE")
	}
	if envNonEmpty("USAGE_FILE") {
		cfg.Usage.File = os.Getenv("USAGE_FILE")
	}
	if envNonEmpty("NOTIFY_INCLUDE_UNKNOWN") {
		cfg.Notify.IncludeUnknown = envTrue("NOTIFY_INCLUDE_UNKNOWN")
	}
}

func applySourceOverrides(cfg *Config, sc SourceConfig) {
	if len(cfg.Sources) == 0 {
		cfg.Sources = []SourceConfig{{}}
	}
	s := &cfg.Sources[0]

	if envNonEmpty("SOURCE_TYPE") {
		s.Type = sc.Type
	}
	if envNonEmpty("SOURCE_NAME") {
		s.Name = sc.Name
	}
	if envNonEmpty("SOURCE_COMMAND") {
		s.Command = sc.Command
	}
	if envNonEmpty("SOURCE_TIMEOUT") {
		s.Timeout = sc.Timeout
	}
	if envNonEmpty("SOURCE_DSN") {
		s.DSN = sc.DSN
	}
	if envNonEmpty("SOURCE_FOLDER") {
		s.Folder = sc.Folder
	}
	if envNonEmpty("SOURCE_GROUPS") {
		s.Groups = parseCSV(os.Getenv("SOURCE_GROUPS"))
	}
	if envNonEmpty("SOURCE_WINDOW") {
		s.Window = sc.Window
	}
	if envNonEmpty("SOURCE_TOLERATE") {
		s.Tolerate = parseCSV(os.Getenv("SOURCE_TOLERATE"))
	}
	if envNonEmpty("SOURCE_URL") {
		s.URL = sc.URL
	}
	if envNonEmpty("SOURCE_USERNAME") {
		s.Username = sc.Username
	}
	if envNonEmpty("SOURCE_PASSWORD") {
		s.Password = sc.Password
	}
	if envNonEmpty("SOURCE_SKIP_VERIFY") {
		s.SkipVerify = sc.SkipVerify
	}
	if envNonEmpty("SOURCE_CPU_THRESHOLD") {
		s.CPUThreshold = sc.CPUThreshold
	}
	if envNonEmpty("SOURCE_MEMORY_THRESHOLD") {
		s.MemoryThreshold = sc.MemoryThreshold
	}
	if envNonEmpty("SOURCE_DISK_FREE_PERCENT") {
		s.DiskFreePercent = sc.DiskFreePercent
	}
	if envNonEmpty("SOURCE_PATHS") {
		s.Paths = parseCSV(os.Getenv("SOURCE_PATHS"))
	}
}

func applyPolicyOverrides(cfg *Config, pc PolicyConfig) {
	if len(cfg.Policies) == 0 {
		cfg.Policies = []PolicyConfig{{}}
	}
	p := &cfg.Policies[0]

	if envNonEmpty("POLICY_NAME") {
		p.Name = pc.Name
	}
	if envNonEmpty("POLICY_COOLDOWN") {
		p.Cooldown = pc.Cooldown
	}
	if envNonEmpty("POLICY_NOTIFY_ON_RECOVERY") {
		p.NotifyOnRecovery = pc.NotifyOnRecovery
	}
}

func applyChannelOverrides(cfg *Config, cc ChannelConfig) {
	if len(cfg.Channels) == 0 {
		cfg.Channels = []ChannelConfig{{}}
	}
	ch := &cfg.Channels[0]

	if envNonEmpty("CHANNEL_TYPE") {
		ch.Type = cc.Type
	}
	if envNonEmpty("CHANNEL_NAME") {
		ch.Name = cc.Name
	}
	if envNonEmpty("CHANNEL_URL") {
		ch.URL = cc.URL
	}
	if envNonEmpty("CHANNEL_TIMEOUT") {
		ch.Timeout = cc.Timeout
	}
	if envNonEmpty("CHANNEL_DETAILED") {
		ch.Detailed = cc.Detailed
	}
}

func applyRouteOverrides(cfg *Config, rm RouteMatch) {
	if len(cfg.Routes) == 0 {
		cfg.Routes = []RouteConfig{{}}
	}
	r := &cfg.Routes[0]

	if envNonEmpty("ROUTE_MATCH_NAME") {
		r.Match.Name = rm.Name
	}
	if envNonEmpty("ROUTE_MATCH_STATUS") {
		r.Match.Status = rm.Status
	}
}

func applyRouteToOverrides(cfg *Config, raw string) {
	if len(cfg.Routes) == 0 {
		cfg.Routes = []RouteConfig{{}}
	}
	if out := parseCSV(raw); len(out) > 0 {
		cfg.Routes[0].To = out
	}
}

func applyLogOverrides(cfg *Config, lc LogConfig) {
	if envNonEmpty("LOG_LEVEL") {
		cfg.Log.Level = lc.Level
	}
	if envNonEmpty("LOG_FORMAT") {
		cfg.Log.Format = lc.Format
	}
	if envNonEmpty("LOG_FILE") {
		cfg.Log.File = lc.File
	}
}

func sourceEnvKeys() []string {
	return []string{
		"SOURCE_TYPE", "SOURCE_NAME", "SOURCE_COMMAND", "SOURCE_TIMEOUT",
		"SOURCE_DSN", "SOURCE_FOLDER", "SOURCE_GROUPS", "SOURCE_WINDOW", "SOURCE_TOLERATE",
		"SOURCE_URL", "SOURCE_USERNAME", "SOURCE_PASSWORD", "SOURCE_SKIP_VERIFY",
		"SOURCE_CPU_THRESHOLD", "SOURCE_MEMORY_THRESHOLD", "SOURCE_DISK_FREE_PERCENT", "SOURCE_PATHS",
	}
}

func policyEnvKeys() []string {
	return []string{"POLICY_NAME", "POLICY_COOLDOWN", "POLICY_NOTIFY_ON_RECOVERY"}
}

func channelEnvKeys() []string {
	return []string{"CHANNEL_TYPE", "CHANNEL_NAME", "CHANNEL_URL", "CHANNEL_TIMEOUT", "CHANNEL_DETAILED"}
}

func routeEnvKeys() []string {
	return []string{"ROUTE_MATCH_NAME", "ROUTE_MATCH_STATUS", "ROUTE_TO"}
}

func logEnvKeys() []string {
	return []string{"LOG_LEVEL", "LOG_FORMAT", "LOG_FILE"}
}

func hasAnyEnv(keys []string) bool {
	for _, key := range keys {
		if envNonEmpty(key) {
			return true
		}
	}
	return false
}

func envNonEmpty(key string) bool {
	val, ok := os.LookupEnv(key)
	if !ok {
		return false
	}
	return strings.TrimSpace(val) != ""
}

func envTrue(key string) bool {
	val := strings.TrimSpace(os.Getenv(key))
	return val == "1" || strings.EqualFold(val, "true") || strings.EqualFold(val, "yes")
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
