package provisioner

import "errors"

var (
	// ErrConfig reports an AccountSpec that cannot be provisioned as given.
	ErrConfig = errors.New("invalid account configuration")
	// ErrConnection reports that the database could not be reached or queried.
	ErrConnection = errors.New("database connection error")
	// ErrCreateUser reports that the database rejected the create-user request.
	ErrCreateUser = errors.New("create user rejected")
)

// FailedStep names the provisioning step an error came from, for log output.
func FailedStep(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfig):
		return "validate"
	case errors.Is(err, ErrConnection):
		return "connect"
	case errors.Is(err, ErrCreateUser):
		return "create_user"
	default:
		return "unknown"
	}
}
