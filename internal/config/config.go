package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	ProjectID   string
	Database    string
	Region      string
	LogLevel    string
	KMSKeyName  string
	Port        string
	CORSOrigins []string
}

// New reads the service configuration from the environment.
func New() *Config {
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("region", "us-central1")
	v.SetDefault("firestoredatabase", "(default)")
	v.SetDefault("loglevel", "info")
	v.SetDefault("port", "8080")
	v.SetDefault("corsorigins", "*")
	v.AutomaticEnv()
	return v
}

// FromViper builds a Config from an already populated viper instance. Keys
// match the upper-cased environment variable names.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		ProjectID:   v.GetString("projectid"),
		Database:    v.GetString("firestoredatabase"),
		Region:      v.GetString("region"),
		LogLevel:    v.GetString("loglevel"),
		KMSKeyName:  v.GetString("kmskeyname"),
		Port:        v.GetString("port"),
		CORSOrigins: splitList(v.GetString("corsorigins")),
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}
