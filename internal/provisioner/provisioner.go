// Package provisioner ensures that the application's database account exists.
// It checks for the user and creates it with a readWrite role when absent;
// an existing account is left untouched.
package provisioner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// Defaults applied when the corresponding configuration value is unset.
const (
	DefaultDatabase = "botdb"
	DefaultUsername = "botuser"
	DefaultPassword = "change_me"

	// RoleReadWrite is the only role the provisioner ever grants.
	RoleReadWrite = "readWrite"
)

// Role is a database role scoped to a single database.
type Role struct {
	Name string
	DB   string
}

// AccountSpec is the resolved account for one provisioning run.
type AccountSpec struct {
	Database string
	Username string
	Password string
}

// Role returns the fixed readWrite role on the spec's database.
func (s AccountSpec) Role() Role {
	return Role{Name: RoleReadWrite, DB: s.Database}
}

func (s AccountSpec) validate() error {
	if s.Database == "" {
		return fmt.Errorf("%w: database name is empty", ErrConfig)
	}
	if s.Username == "" {
		return fmt.Errorf("%w: username is empty", ErrConfig)
	}
	return nil
}

// UserRecord is the part of a stored user the provisioner looks at.
type UserRecord struct {
	User  string
	DB    string
	Roles []Role
}

// CreateUserRequest carries everything needed to create a user.
type CreateUserRequest struct {
	User     string
	Password string
	Roles    []Role
}

// UserManager is the database's user-management API.
type UserManager interface {
	// GetUser returns the user named username in db, or nil, nil when absent.
	GetUser(ctx context.Context, db, username string) (*UserRecord, error)

	// CreateUser creates a user in db.
	CreateUser(ctx context.Context, db string, req CreateUserRequest) error
}

// Outcome is the result of a successful provisioning run.
type Outcome int

const (
	// Created means the account did not exist and was created.
	Created Outcome = iota + 1
	// AlreadyExists means the account was found and nothing was changed.
	AlreadyExists
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case AlreadyExists:
		return "already_exists"
	default:
		return "unknown"
	}
}

// Provisioner ensures a single account exists through a UserManager.
type Provisioner struct {
	users  UserManager
	logger *slog.Logger
}

// New creates a Provisioner. A nil logger discards output.
func New(users UserManager, logger *slog.Logger) *Provisioner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Provisioner{
		users:  users,
		logger: logger.With("component", "provisioner"),
	}
}

// EnsureAccount creates spec's user with the readWrite role on spec.Database
// unless a user with that name already exists there.
//
// An existing user is never modified, even when its password differs from
// spec.Password. Errors wrap ErrConfig, ErrConnection or ErrCreateUser.
func (p *Provisioner) EnsureAccount(ctx context.Context, spec AccountSpec) (Outcome, error) {
	if err := spec.validate(); err != nil {
		return 0, err
	}
	log := p.logger.With("db", spec.Database, "user", spec.Username)

	log.DebugContext(ctx, "Looking up user")
	existing, err := p.users.GetUser(ctx, spec.Database, spec.Username)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to look up user %q on db %q: %w", ErrConnection, spec.Username, spec.Database, err)
	}

	if existing != nil {
		// Password rotation on redeploy is intentionally not done here.
		log.InfoContext(ctx, "User already exists")
		return AlreadyExists, nil
	}

	req := CreateUserRequest{
		User:     spec.Username,
		Password: spec.Password,
		Roles:    []Role{spec.Role()},
	}
	if err := p.users.CreateUser(ctx, spec.Database, req); err != nil {
		return 0, fmt.Errorf("%w: failed to create user %q on db %q: %w", ErrCreateUser, spec.Username, spec.Database, err)
	}

	log.InfoContext(ctx, "Created user", "role", RoleReadWrite)
	return Created, nil
}
