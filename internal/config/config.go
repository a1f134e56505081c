// Package config loads the provisioner's settings from environment variables
// and an optional YAML file, applies defaults and validates the result.
package config

import (
	"errors"
	"time"
)

// ErrConfiguration wraps every error returned by Load.
var ErrConfiguration = errors.New("configuration error")

// Config holds all settings for one provisioning run.
type Config struct {
	Account  AccountConfig  `mapstructure:"account"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	Log      LogConfig      `mapstructure:"log"`
	Telegram TelegramConfig `mapstructure:"telegram"`
}

// AccountConfig describes the account to ensure.
type AccountConfig struct {
	Database string `mapstructure:"database" validate:"required"`
	Username string `mapstructure:"username" validate:"required"`
	Password string `mapstructure:"password"`
}

// MongoConfig describes how to reach MongoDB with privileges to manage users.
type MongoConfig struct {
	URI           string        `mapstructure:"uri"            validate:"required"`
	AdminUser     string        `mapstructure:"admin_user"     validate:"required_with=AdminPassword"`
	AdminPassword string        `mapstructure:"admin_password" validate:"required_with=AdminUser"`
	AuthSource    string        `mapstructure:"auth_source"`
	Timeout       time.Duration `mapstructure:"timeout"        validate:"min=1s,max=10m"`
}

// LogConfig controls logger output.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig enables outcome notifications when both fields are set.
type TelegramConfig struct {
	Token   string `mapstructure:"token"    validate:"required_with=AdminID"`
	AdminID int64  `mapstructure:"admin_id" validate:"required_with=Token"`
}

// Enabled reports whether Telegram notifications are configured.
func (t TelegramConfig) Enabled() bool {
	return t.Token != "" && t.AdminID != 0
}
