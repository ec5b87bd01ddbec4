package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/immpres/config"
	ConfigFileName    = "immpres.yml"
)

// Config holds the immpres server configuration settings.
//
// The token signing secret is deliberately not part of this struct: it only
// ever comes from the IMMPRES_TOKEN_SECRET environment variable and is never
// written to a file.
type Config struct {
	// TrustedProxies is a list of CIDR ranges for trusted proxies
	TrustedProxies []string `yaml:"trusted_proxies" json:"trusted_proxies"`

	// APIResourceListLimitMax is the maximum number of results for listing requests
	APIResourceListLimitMax int `yaml:"api_resource_list_limit_max" json:"api_resource_list_limit_max"`

	// SessionTokenTTL is the session token lifetime in seconds
	SessionTokenTTL int `yaml:"session_token_ttl" json:"session_token_ttl"`

	// VerifySignatureOnLookup controls whether logout/authenticated re-verify
	// the token signature before the (key, token) store lookup. The original
	// service trusted the stored token; signature re-verification is opt-in.
	VerifySignatureOnLookup bool `yaml:"verify_signature_on_lookup" json:"verify_signature_on_lookup"`

	// BcryptCost is the bcrypt work factor for password hashing
	BcryptCost int `yaml:"bcrypt_cost" json:"bcrypt_cost"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *Config
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload re-reads the configuration from file and environment into the live
// instance. Handles obtained from Get before the reload see the new values;
// swapping the pointer instead would strand every component that captured
// the config at boot on stale settings.
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	defer configMu.Unlock()
	if globalConfig == nil {
		globalConfig = cfg
		return nil
	}
	*globalConfig = *cfg
	return nil
}

// newDefault returns a config with default values
func newDefault() *Config {
	return &Config{
		TrustedProxies:          []string{},
		APIResourceListLimitMax: 1000,
		SessionTokenTTL:         604800, // 7 days
		VerifySignatureOnLookup: false,
		BcryptCost:              10,
		sources:                 make(map[string]string),
	}
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*Config, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("IMMPRES_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig Config
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"trusted_proxies", "api_resource_list_limit_max",
		"session_token_ttl", "verify_signature_on_lookup", "bcrypt_cost",
	}
}

func (c *Config) applyFileConfig(file *Config) {
	if len(file.TrustedProxies) > 0 {
		c.TrustedProxies = file.TrustedProxies
		c.sources["trusted_proxies"] = "file"
	}
	if file.APIResourceListLimitMax != 0 {
		c.APIResourceListLimitMax = file.APIResourceListLimitMax
		c.sources["api_resource_list_limit_max"] = "file"
	}
	if file.SessionTokenTTL != 0 {
		c.SessionTokenTTL = file.SessionTokenTTL
		c.sources["session_token_ttl"] = "file"
	}
	if file.VerifySignatureOnLookup {
		c.VerifySignatureOnLookup = true
		c.sources["verify_signature_on_lookup"] = "file"
	}
	if file.BcryptCost != 0 {
		c.BcryptCost = file.BcryptCost
		c.sources["bcrypt_cost"] = "file"
	}
}

func (c *Config) applyEnvConfig() {
	if val := os.Getenv("IMMPRES_TRUSTED_PROXIES"); val != "" {
		c.TrustedProxies = splitAndTrim(val)
		c.sources["trusted_proxies"] = "environment"
	}
	if val := os.Getenv("IMMPRES_API_RESOURCE_LIST_LIMIT_MAX"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			c.APIResourceListLimitMax = n
			c.sources["api_resource_list_limit_max"] = "environment"
		}
	}
	if val := os.Getenv("IMMPRES_SESSION_TOKEN_TTL"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			c.SessionTokenTTL = n
			c.sources["session_token_ttl"] = "environment"
		}
	}
	if val := os.Getenv("IMMPRES_VERIFY_SIGNATURE_ON_LOOKUP"); val != "" {
		c.VerifySignatureOnLookup = val == "true" || val == "1"
		c.sources["verify_signature_on_lookup"] = "environment"
	}
	if val := os.Getenv("IMMPRES_BCRYPT_COST"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			c.BcryptCost = n
			c.sources["bcrypt_cost"] = "environment"
		}
	}
}

// ConfigFilePath returns the path to the config file
func (c *Config) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *Config) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// TokenTTL returns the session token TTL as a duration
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.SessionTokenTTL) * time.Second
}

// IsTrustedProxy checks if an IP is from a trusted proxy
func (c *Config) IsTrustedProxy(ip string) bool {
	if len(c.TrustedProxies) == 0 {
		return false
	}

	parsedIP := net.ParseIP(ip)
	if parsedIP == nil {
		return false
	}

	for _, cidr := range c.TrustedProxies {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			if net.ParseIP(cidr) != nil && cidr == ip {
				return true
			}
			continue
		}
		if network.Contains(parsedIP) {
			return true
		}
	}
	return false
}

// Validate validates the configuration
func (c *Config) Validate() error {
	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			if net.ParseIP(cidr) == nil {
				return fmt.Errorf("invalid trusted_proxies value: %s", cidr)
			}
		}
	}
	if c.SessionTokenTTL <= 0 {
		return fmt.Errorf("session_token_ttl must be positive")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("bcrypt_cost must be between 4 and 31")
	}
	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *Config) Attributes() []Attribute {
	return []Attribute{
		{Name: "trusted_proxies", Value: strings.Join(c.TrustedProxies, ","), Source: c.Source("trusted_proxies")},
		{Name: "api_resource_list_limit_max", Value: strconv.Itoa(c.APIResourceListLimitMax), Source: c.Source("api_resource_list_limit_max")},
		{Name: "session_token_ttl", Value: strconv.Itoa(c.SessionTokenTTL), Source: c.Source("session_token_ttl")},
		{Name: "verify_signature_on_lookup", Value: strconv.FormatBool(c.VerifySignatureOnLookup), Source: c.Source("verify_signature_on_lookup")},
		{Name: "bcrypt_cost", Value: strconv.Itoa(c.BcryptCost), Source: c.Source("bcrypt_cost")},
	}
}

// FormatText returns a text representation of the configuration
func (c *Config) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-35s %-25s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-35s %-25s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-35s %-25s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *Config) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
