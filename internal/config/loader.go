package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load builds the configuration from, in increasing precedence:
// 1. Default values
// 2. The YAML file named by PROVISIONER_CONFIG, or ./provisioner.yaml if present
// 3. Environment variables (DB_NAME, DB_USER, DB_PASSWORD, MONGO_URI, ...)
//
// Empty environment variables are treated as unset, except DB_PASSWORD: a set
// but empty DB_PASSWORD yields an empty password rather than the default.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("%w: failed to bind environment: %v", ErrConfiguration, err)
	}

	if err := readConfigFile(v, os.Getenv(FileEnv)); err != nil {
		return nil, fmt.Errorf("%w: failed to load config file: %v", ErrConfiguration, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrConfiguration, err)
	}
	if pw, ok := os.LookupEnv(envBindings["account.password"]); ok {
		cfg.Account.Password = pw
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	return cfg, nil
}

// readConfigFile reads path if given, otherwise the default file when it exists.
func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		return v.ReadInConfig()
	}

	v.SetConfigName("provisioner")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
		// Config file not found is okay, we'll use defaults
	}
	return nil
}

func bindEnv(v *viper.Viper) error {
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s: %w", env, err)
		}
	}
	return nil
}

// setDefaults sets default values for optional configuration parameters
func setDefaults(v *viper.Viper) {
	v.SetDefault("account.database", DefaultAccountDatabase)
	v.SetDefault("account.username", DefaultAccountUsername)
	v.SetDefault("account.password", DefaultAccountPassword)

	v.SetDefault("mongo.uri", DefaultMongoURI)
	v.SetDefault("mongo.admin_user", "")
	v.SetDefault("mongo.admin_password", "")
	v.SetDefault("mongo.auth_source", DefaultMongoAuthSource)
	v.SetDefault("mongo.timeout", DefaultMongoTimeout)

	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.json", DefaultLogJSON)

	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.admin_id", 0)
}
