package commands

import (
	"fmt"
	"sync"
	"time"

	"github.com/fivetwenty-io/graph-client/internal/constants"
)

// ConfigPersister writes refreshed tokens back to the named profile in the
// CLI config file. It satisfies the auth.ConfigPersister interface.
type ConfigPersister struct {
	mutex sync.Mutex
}

// NewConfigPersister creates a persister backed by the CLI config file.
func NewConfigPersister() *ConfigPersister {
	return &ConfigPersister{}
}

// UpdateAccessToken replaces the stored token for the profile and stamps
// the refresh time. Unknown profiles are rejected, not created.
func (p *ConfigPersister) UpdateAccessToken(profileName, token string, expiresAt time.Time) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	config := loadConfig()

	profile, ok := config.Profiles[profileName]
	if !ok {
		return fmt.Errorf("%w: '%s'", constants.ErrProfileNotFound, profileName)
	}

	refreshedAt := time.Now()

	profile.AccessToken = token
	profile.LastRefreshed = &refreshedAt

	if !expiresAt.IsZero() {
		profile.TokenExpiresAt = &expiresAt
	}

	return saveConfigStruct(config)
}
