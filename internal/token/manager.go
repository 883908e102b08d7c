package token

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fjordbyte/vipps-checkout-gateway/internal/domain"
)

// ErrCredentialUnavailable means no credential has ever been obtained for
// the account; it cannot serve payment traffic.
var ErrCredentialUnavailable = errors.New("no access credential available for account")

// RefreshMargin is how long before real expiry a credential is renewed. It
// is far larger than any single request's duration, so a request never
// races a token about to lapse.
const RefreshMargin = 300 * time.Second

// Fetcher obtains a fresh credential from the provider's token endpoint.
type Fetcher interface {
	FetchAccessToken(ctx context.Context) (domain.Credential, error)
}

// Manager owns the single live credential of one account. The credential is
// replaced wholesale on refresh; readers see either the old or the new
// value in its entirety.
type Manager struct {
	account domain.Account
	fetcher Fetcher
	logger  *slog.Logger
	margin  time.Duration

	mu   sync.RWMutex
	cred *domain.Credential
}

func NewManager(account domain.Account, fetcher Fetcher, logger *slog.Logger) *Manager {
	return &Manager{
		account: account,
		fetcher: fetcher,
		logger:  logger,
		margin:  RefreshMargin,
	}
}

// Start performs the first credential fetch synchronously; account setup
// must not complete until it succeeds. On success a background task keeps
// the credential fresh until ctx is cancelled.
func (m *Manager) Start(ctx context.Context) error {
	cred, err := m.fetcher.FetchAccessToken(ctx)
	if err != nil {
		return fmt.Errorf("initial credential fetch for account %s: %w", m.account.ClientID, err)
	}
	m.install(cred)

	go m.run(ctx, m.refreshDelay(cred))
	return nil
}

// Acquire returns the current credential.
func (m *Manager) Acquire() (domain.Credential, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.cred == nil {
		return domain.Credential{}, ErrCredentialUnavailable
	}
	return *m.cred, nil
}

func (m *Manager) install(cred domain.Credential) {
	m.mu.Lock()
	m.cred = &cred
	m.mu.Unlock()
}

func (m *Manager) refreshDelay(cred domain.Credential) time.Duration {
	delay := cred.ExpiresIn - m.margin
	if delay < time.Second {
		delay = time.Second
	}
	return delay
}

func (m *Manager) run(ctx context.Context, delay time.Duration) {
	m.logger.Info("credential refresh task started",
		"client_id", m.account.ClientID,
		"next_refresh", delay,
	)

	timer := time.NewTimer(delay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("credential refresh task stopping", "client_id", m.account.ClientID)
			return
		case <-timer.C:
			cred, err := m.fetcher.FetchAccessToken(ctx)
			if err != nil {
				// Almost always a configuration problem with the account's
				// provider keys. The account keeps serving on the installed
				// credential until it truly expires, then goes dark.
				m.logger.Error("credential refresh failed, account will go stale",
					"client_id", m.account.ClientID,
					"email", m.account.Email,
					"error", err,
				)
				return
			}

			m.install(cred)
			timer.Reset(m.refreshDelay(cred))
		}
	}
}
