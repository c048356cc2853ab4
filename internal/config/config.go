package config

import "time"

type Config struct {
	Sources  []SourceConfig  `yaml:"sources" mapstructure:"sources"`
	Policies []PolicyConfig  `yaml:"policies" mapstructure:"policies"`
	Channels []ChannelConfig `yaml:"channels" mapstructure:"channels"`
	Routes   []RouteConfig   `yaml:"routes" mapstructure:"routes"`
	Schedule string          `yaml:"schedule" mapstructure:"schedule" envconfig:"SCHEDULE"`
	Usage    UsageConfig     `yaml:"usage" mapstructure:"usage"`
	Log      LogConfig       `yaml:"log" mapstructure:"log"`
	Notify   NotifyConfig    `yaml:"notify" mapstructure:"notify"`
}

func DefaultConfig() Config {
	return Config{}
}

type SourceConfig struct {
	Type string `yaml:"type" mapstructure:"type" envconfig:"SOURCE_TYPE"`
	Name string `yaml:"name" mapstructure:"name" envconfig:"SOURCE_NAME"`

	// pc_service: pmcmd wrapper invocation per environment
	Command string        `yaml:"command" mapstructure:"command" envconfig:"SOURCE_COMMAND"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" envconfig:"SOURCE_TIMEOUT"`

	// pc_repository / mdm_jobs: repository database
	DSN      string        `yaml:"dsn" mapstructure:"dsn" envconfig:"SOURCE_DSN"`
	Folder   string        `yaml:"folder" mapstructure:"folder" envconfig:"SOURCE_FOLDER"`
	Groups   []string      `yaml:"groups" mapstructure:"groups"`
	Window   time.Duration `yaml:"window" mapstructure:"window" envconfig:"SOURCE_WINDOW"`
	Tolerate []string      `yaml:"tolerate" mapstructure:"tolerate"`

	// mdm_apps: JBoss management API
	URL        string `yaml:"url" mapstructure:"url" envconfig:"SOURCE_URL"`
	Username   string `yaml:"username" mapstructure:"username" envconfig:"SOURCE_USERNAME"`
	Password   string `yaml:"password" mapstructure:"password" envconfig:"SOURCE_PASSWORD"`
	SkipVerify bool   `yaml:"skip_verify" mapstructure:"skip_verify" envconfig:"SOURCE_SKIP_VERIFY"`

	// host: resource thresholds. Nil means default; an explicit 0 is kept.
	CPUThreshold    *float64 `yaml:"cpu_threshold" mapstructure:"cpu_threshold" envconfig:"SOURCE_CPU_THRESHOLD"`
	MemoryThreshold *float64 `yaml:"memory_threshold" mapstructure:"memory_threshold" envconfig:"SOURCE_MEMORY_THRESHOLD"`
	DiskFreePercent *float64 `yaml:"disk_free_percent" mapstructure:"disk_free_percent" envconfig:"SOURCE_DISK_FREE_PERCENT"`
	Paths           []string `yaml:"paths" mapstructure:"paths"`
}

type PolicyConfig struct {
	Name             string        `yaml:"name" mapstructure:"name" envconfig:"POLICY_NAME"`
	Cooldown         time.Duration `yaml:"cooldown" mapstructure:"cooldown" envconfig:"POLICY_COOLDOWN"`
	NotifyOnRecovery bool          `yaml:"notify_on_recovery" mapstructure:"notify_on_recovery" envconfig:"POLICY_NOTIFY_ON_RECOVERY"`
}

type ChannelConfig struct {
	Type     string        `yaml:"type" mapstructure:"type" envconfig:"CHANNEL_TYPE"`
	Name     string        `yaml:"name" mapstructure:"name" envconfig:"CHANNEL_NAME"`
	URL      string        `yaml:"url" mapstructure:"url" envconfig:"CHANNEL_URL"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout" envconfig:"CHANNEL_TIMEOUT"`
	Detailed bool          `yaml:"detailed" mapstructure:"detailed" envconfig:"CHANNEL_DETAILED"`
}

type RouteConfig struct {
	Match RouteMatch `yaml:"match" mapstructure:"match"`
	To    []string   `yaml:"to" mapstructure:"to"`
}

type RouteMatch struct {
	Name   string `yaml:"name" mapstructure:"name" envconfig:"ROUTE_MATCH_NAME"`
	Status string `yaml:"status" mapstructure:"status" envconfig:"ROUTE_MATCH_STATUS"`
}

type NotifyConfig struct {
	IncludeUnknown bool `yaml:"include_unknown" mapstructure:"include_unknown" envconfig:"NOTIFY_INCLUDE_UNKNOWN"`
}

// UsageConfig points the host-metrics recorder at its CSV file. An empty
// file path disables recording.
type UsageConfig struct {
	File string `yaml:"file" mapstructure:"file" envconfig:"USAGE_FILE"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level" envconfig:"LOG_LEVEL"`
	Format string `yaml:"format" mapstructure:"format" envconfig:"LOG_FORMAT"`
	File   string `yaml:"file" mapstructure:"file" envconfig:"LOG_FILE"`
}
