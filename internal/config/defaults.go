package config

import (
	"time"

	"github.com/edgard/botdb-provisioner/internal/provisioner"
)

// Default values for configuration
const (
	// Account defaults
	DefaultAccountDatabase = provisioner.DefaultDatabase
	DefaultAccountUsername = provisioner.DefaultUsername
	DefaultAccountPassword = provisioner.DefaultPassword

	// Mongo defaults
	DefaultMongoURI        = "mongodb://mongo:27017"
	DefaultMongoAuthSource = "admin"
	DefaultMongoTimeout    = 30 * time.Second

	// Log defaults
	DefaultLogLevel = "info"
	DefaultLogJSON  = false

	// FileEnv names an explicit config file, which must then exist.
	// Without it ./provisioner.yaml is read when present.
	FileEnv = "PROVISIONER_CONFIG"
)

// envBindings maps config keys to the environment variables that set them.
var envBindings = map[string]string{
	"account.database":     "DB_NAME",
	"account.username":     "DB_USER",
	"account.password":     "DB_PASSWORD",
	"mongo.uri":            "MONGO_URI",
	"mongo.admin_user":     "MONGO_INITDB_ROOT_USERNAME",
	"mongo.admin_password": "MONGO_INITDB_ROOT_PASSWORD",
	"mongo.auth_source":    "MONGO_AUTH_SOURCE",
	"mongo.timeout":        "MONGO_TIMEOUT",
	"log.level":            "LOG_LEVEL",
	"log.json":             "LOG_JSON",
	"telegram.token":       "TELEGRAM_TOKEN",
	"telegram.admin_id":    "TELEGRAM_ADMIN_ID",
}
