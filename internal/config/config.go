// Package config loads the gridpathd YAML configuration.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/gridpath/playback"
	"github.com/katalvlaran/gridpath/terrain"
)

// ErrUnsupportedVersion indicates a config file with a version other than 1.
var ErrUnsupportedVersion = errors.New("config: unsupported version")

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// Config is the daemon configuration.
type Config struct {
	Version int `yaml:"version"`
	Server  struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Playback struct {
		VisitedDelay   time.Duration `yaml:"visited_delay"`
		PathDelay      time.Duration `yaml:"path_delay"`
		BacktrackDelay time.Duration `yaml:"backtrack_delay"`
	} `yaml:"playback"`
	Search struct {
		CostTable   string `yaml:"cost_table"`
		Policy      string `yaml:"policy"`
		OverrideMud bool   `yaml:"override_mud"`
	} `yaml:"search"`
	// CostTables overrides built-in tables or adds named ones. Each entry maps
	// a kind name to a number or "impassable".
	CostTables map[string]map[string]CostValue `yaml:"cost_tables"`
	Storage    struct {
		Driver string `yaml:"driver"`
	} `yaml:"storage"`
	Postgres PostgresConfig `yaml:"postgres"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
}

// PostgresConfig holds connection settings. The password is never read
// from the file; see ApplyEnv.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
	Password string `yaml:"-"`
}

// DSN returns a lib/pq keyword/value connection string.
func (p PostgresConfig) DSN() string {
	if p.Password != "" {
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode)
	}
	return fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.DBName, p.SSLMode)
}

// MQTTConfig holds the frame publisher settings.
type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"`
	ClientID    string `yaml:"client_id"`
	TopicPrefix string `yaml:"topic_prefix"`
}

// CostValue is a YAML cost: a non-negative number or "impassable".
type CostValue terrain.Cost

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *CostValue) UnmarshalYAML(value *yaml.Node) error {
	s := strings.TrimSpace(value.Value)
	if strings.EqualFold(s, "impassable") || strings.EqualFold(s, "inf") {
		*c = CostValue(terrain.Impassable)
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("config: line %d: cost %q: want a number or \"impassable\"", value.Line, s)
	}
	*c = CostValue(f)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (c CostValue) MarshalYAML() (interface{}, error) {
	if math.IsInf(float64(c), 1) {
		return "impassable", nil
	}
	return float64(c), nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{Version: 1}
	cfg.Server.Addr = ":8080"
	pb := playback.DefaultConfig()
	cfg.Playback.VisitedDelay = pb.VisitedDelay
	cfg.Playback.PathDelay = pb.PathDelay
	cfg.Playback.BacktrackDelay = pb.BacktrackDelay
	cfg.Search.CostTable = "hard"
	cfg.Search.Policy = "predicate"
	cfg.Storage.Driver = DriverMemory
	cfg.Postgres = PostgresConfig{Host: "127.0.0.1", Port: "5432", User: "gridpath", DBName: "gridpath", SSLMode: "disable"}
	cfg.MQTT = MQTTConfig{Broker: "tcp://localhost:1883", ClientID: "gridpathd", TopicPrefix: "gridpath"}
	return cfg
}

// Load reads and validates the file at path on top of Default.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

// Parse decodes b on top of Default and validates the result.
func Parse(b []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, err
	}
	if cfg.Version != 1 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, cfg.Version)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks selectors, tables and delays.
func (c *Config) Validate() error {
	if _, err := c.Tables(); err != nil {
		return err
	}
	if _, err := c.DefaultTable(); err != nil {
		return err
	}
	if _, err := c.Policy(); err != nil {
		return err
	}
	switch c.Storage.Driver {
	case DriverMemory, DriverPostgres:
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}
	if c.Playback.VisitedDelay < 0 || c.Playback.PathDelay < 0 || c.Playback.BacktrackDelay < 0 {
		return errors.New("config: playback delays must not be negative")
	}
	return nil
}

// Tables returns the built-in tables with the file's overrides applied.
// A named entry starts from the built-in of that name, or from Hard for a
// new name, and replaces the kinds it lists.
func (c *Config) Tables() (map[string]terrain.CostTable, error) {
	out := map[string]terrain.CostTable{"soft": terrain.Soft(), "hard": terrain.Hard()}
	for name, costs := range c.CostTables {
		t, ok := out[name]
		if !ok {
			t = terrain.Hard()
			t.Name = name
		}
		for kindName, v := range costs {
			k, err := terrain.ParseKind(kindName)
			if err != nil {
				return nil, fmt.Errorf("config: cost table %q: %w", name, err)
			}
			t = t.With(k, terrain.Cost(v))
		}
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("config: cost table %q: %w", name, err)
		}
		out[name] = t
	}
	return out, nil
}

// Table resolves a table by name; "" selects the configured default.
func (c *Config) Table(name string) (terrain.CostTable, error) {
	if name == "" {
		name = c.Search.CostTable
	}
	tables, err := c.Tables()
	if err != nil {
		return terrain.CostTable{}, err
	}
	t, ok := tables[name]
	if !ok {
		return terrain.CostTable{}, fmt.Errorf("%w: %q", terrain.ErrUnknownTable, name)
	}
	return t, nil
}

// DefaultTable resolves Search.CostTable.
func (c *Config) DefaultTable() (terrain.CostTable, error) { return c.Table("") }

// Policy parses Search.Policy: "predicate" or "cost_table".
func (c *Config) Policy() (terrain.Policy, error) {
	return ParsePolicy(c.Search.Policy)
}

// ParsePolicy maps a policy name to a terrain.Policy; "" is "predicate".
func ParsePolicy(name string) (terrain.Policy, error) {
	switch name {
	case "", "predicate":
		return terrain.PolicyPredicate, nil
	case "cost_table":
		return terrain.PolicyCostTable, nil
	}
	return 0, fmt.Errorf("config: unknown walk policy %q", name)
}

// PlaybackConfig converts the playback section.
func (c *Config) PlaybackConfig() playback.Config {
	return playback.Config{
		VisitedDelay:   c.Playback.VisitedDelay,
		PathDelay:      c.Playback.PathDelay,
		BacktrackDelay: c.Playback.BacktrackDelay,
	}
}
