//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"fmt"
	"os"
	"os/user"

	"github.com/oshokin/orientation-lock/internal/domain/lock"
)

// DetectActor gathers host and user information to attach to requests.
func DetectActor() (*lock.Actor, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("hostname: %w", err)
	}

	currentUser, err := user.Current()
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}

	return &lock.Actor{
		Hostname: hostname,
		Username: currentUser.Username,
	}, nil
}
