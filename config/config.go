/*
Config package
*/
package config

import (
	"errors"

	"github.com/spf13/viper"
)

// Config wraps a dedicated viper instance so that tests and multiple
// gateways in one process do not share mutable defaults.
type Config struct {
	viper *viper.Viper
}

// New reads .env and ENV variables.
func New(log Logger) (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("dotenv")
	v.AddConfigPath(".") // look for config in the working directory
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var typeErr viper.ConfigFileNotFoundError
		if !errors.As(err, &typeErr) {
			return nil, err
		}

		if log != nil {
			log.Warn("The .env file has not been found in the current directory")
		}
	}

	return &Config{viper: v}, nil
}

// SetDefault sets the default value for this key.
func (c *Config) SetDefault(key string, value any) {
	c.viper.SetDefault(key, value)
}

// Set overrides the value for this key.
func (c *Config) Set(key string, value any) {
	c.viper.Set(key, value)
}

// GetString returns the value associated with the key as a string.
func (c *Config) GetString(key string) string {
	return c.viper.GetString(key)
}

// GetInt returns the value associated with the key as an int.
func (c *Config) GetInt(key string) int {
	return c.viper.GetInt(key)
}

// GetBool returns the value associated with the key as a bool.
func (c *Config) GetBool(key string) bool {
	return c.viper.GetBool(key)
}

// GetStringSlice returns the value associated with the key as a string slice.
func (c *Config) GetStringSlice(key string) []string {
	return c.viper.GetStringSlice(key)
}
