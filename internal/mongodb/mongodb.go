// Package mongodb implements the provisioner's user-management API on top of
// the official MongoDB driver, using the usersInfo and createUser commands.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/edgard/botdb-provisioner/internal/config"
	"github.com/edgard/botdb-provisioner/internal/provisioner"
)

// runFunc runs a database command against db.
type runFunc func(ctx context.Context, db string, cmd bson.D) *mongo.SingleResult

// Client manages users through a connected MongoDB client.
type Client struct {
	client *mongo.Client
	logger *slog.Logger
	run    runFunc
}

var _ provisioner.UserManager = (*Client)(nil)

// Connect opens a client for cfg and verifies the server is reachable.
// Failures wrap provisioner.ErrConnection.
func Connect(ctx context.Context, cfg config.MongoConfig, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	log := logger.With("component", "mongodb")

	client, err := mongo.Connect(ctx, clientOptions(cfg))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create mongo client: %w", provisioner.ErrConnection, err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		if dErr := client.Disconnect(context.Background()); dErr != nil {
			log.Error("Error disconnecting after failed ping", "error", dErr)
		}
		return nil, fmt.Errorf("%w: failed to reach mongo: %w", provisioner.ErrConnection, err)
	}

	log.Info("Connected to MongoDB", "authenticated", cfg.AdminUser != "")
	return newClient(client, log), nil
}

func newClient(client *mongo.Client, log *slog.Logger) *Client {
	c := &Client{client: client, logger: log}
	c.run = func(ctx context.Context, db string, cmd bson.D) *mongo.SingleResult {
		return c.client.Database(db).RunCommand(ctx, cmd)
	}
	return c
}

func clientOptions(cfg config.MongoConfig) *options.ClientOptions {
	opts := options.Client().ApplyURI(cfg.URI).SetTimeout(cfg.Timeout)
	if cfg.AdminUser != "" {
		opts.SetAuth(options.Credential{
			Username:   cfg.AdminUser,
			Password:   cfg.AdminPassword,
			AuthSource: cfg.AuthSource,
		})
	}
	return opts
}

// Close disconnects the client. Errors are logged.
func (c *Client) Close(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Disconnect(ctx); err != nil {
		c.logger.Error("Error disconnecting from MongoDB", "error", err)
	} else {
		c.logger.Debug("MongoDB connection closed")
	}
}

type roleDoc struct {
	Role string `bson:"role"`
	DB   string `bson:"db"`
}

type userDoc struct {
	User  string    `bson:"user"`
	DB    string    `bson:"db"`
	Roles []roleDoc `bson:"roles"`
}

type usersInfoReply struct {
	Users []userDoc `bson:"users"`
}

func usersInfoCommand(db, username string) bson.D {
	return bson.D{{Key: "usersInfo", Value: bson.D{
		{Key: "user", Value: username},
		{Key: "db", Value: db},
	}}}
}

func createUserCommand(req provisioner.CreateUserRequest) bson.D {
	roles := make(bson.A, 0, len(req.Roles))
	for _, r := range req.Roles {
		roles = append(roles, bson.D{{Key: "role", Value: r.Name}, {Key: "db", Value: r.DB}})
	}
	return bson.D{
		{Key: "createUser", Value: req.User},
		{Key: "pwd", Value: req.Password},
		{Key: "roles", Value: roles},
	}
}

// GetUser returns the user named username defined on db, or nil when absent.
// Failures are returned as-is; the provisioner classifies them.
func (c *Client) GetUser(ctx context.Context, db, username string) (*provisioner.UserRecord, error) {
	var reply usersInfoReply
	if err := c.run(ctx, db, usersInfoCommand(db, username)).Decode(&reply); err != nil {
		return nil, fmt.Errorf("usersInfo: %w", err)
	}

	for _, u := range reply.Users {
		if u.User != username || u.DB != db {
			continue
		}
		rec := &provisioner.UserRecord{User: u.User, DB: u.DB}
		for _, r := range u.Roles {
			rec.Roles = append(rec.Roles, provisioner.Role{Name: r.Role, DB: r.DB})
		}
		c.logger.Debug("Found existing user", "db", db, "user", username, "roles", len(rec.Roles))
		return rec, nil
	}
	return nil, nil
}

// CreateUser runs createUser on db. A user that already exists is reported as
// an error like any other rejection.
func (c *Client) CreateUser(ctx context.Context, db string, req provisioner.CreateUserRequest) error {
	if err := c.run(ctx, db, createUserCommand(req)).Err(); err != nil {
		var cmdErr mongo.CommandError
		if errors.As(err, &cmdErr) {
			return fmt.Errorf("createUser rejected (code %d, %s): %w", cmdErr.Code, cmdErr.Name, err)
		}
		return fmt.Errorf("createUser: %w", err)
	}
	return nil
}
