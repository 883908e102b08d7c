package account

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/fjordbyte/vipps-checkout-gateway/internal/application"
	"github.com/fjordbyte/vipps-checkout-gateway/internal/application/services"
	"github.com/fjordbyte/vipps-checkout-gateway/internal/config"
	"github.com/fjordbyte/vipps-checkout-gateway/internal/domain"
	"github.com/fjordbyte/vipps-checkout-gateway/internal/infrastructure/tebex"
	"github.com/fjordbyte/vipps-checkout-gateway/internal/infrastructure/vipps"
	"github.com/fjordbyte/vipps-checkout-gateway/internal/settlement"
	"github.com/fjordbyte/vipps-checkout-gateway/internal/token"
)

// Runtime bundles everything one merchant account needs to serve traffic:
// its live credential, its store identity, and the two services the REST
// layer delegates to.
type Runtime struct {
	Account    domain.Account
	Store      application.StoreInformation
	Tokens     *token.Manager
	Initiation *services.InitiationService
	Settlement *services.SettlementCoordinator
}

// Registry resolves the runtime serving a provider client id.
type Registry struct {
	accounts map[string]*Runtime
}

func NewRegistry(runtimes ...*Runtime) *Registry {
	accounts := make(map[string]*Runtime, len(runtimes))
	for _, rt := range runtimes {
		accounts[rt.Account.ClientID] = rt
	}
	return &Registry{accounts: accounts}
}

func (r *Registry) Lookup(clientID string) (*Runtime, bool) {
	rt, ok := r.accounts[clientID]
	return rt, ok
}

func (r *Registry) Len() int {
	return len(r.accounts)
}

// Setup builds and starts every configured account in parallel. Each
// account's setup blocks on its first credential fetch and its store
// information; any failure fails the whole startup. Background refresh
// tasks run until ctx is cancelled.
func Setup(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Registry, error) {
	var (
		g        errgroup.Group
		mu       sync.Mutex
		runtimes []*Runtime
	)

	for email, acctCfg := range cfg.ActiveAccounts() {
		acct := domain.Account{
			Email:                email,
			ClientID:             acctCfg.ClientID,
			ClientSecret:         acctCfg.ClientSecret,
			SubscriptionKey:      acctCfg.SubscriptionKey,
			MerchantSerialNumber: acctCfg.MerchantSerialNumber,
			StoreSecret:          acctCfg.TebexSecret,
		}

		g.Go(func() error {
			rt, err := setupAccount(ctx, cfg, acct, logger)
			if err != nil {
				return fmt.Errorf("account %s: %w", acct.Email, err)
			}

			mu.Lock()
			runtimes = append(runtimes, rt)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return NewRegistry(runtimes...), nil
}

func setupAccount(ctx context.Context, cfg *config.Config, acct domain.Account, logger *slog.Logger) (*Runtime, error) {
	provider := vipps.NewClient(cfg.Provider, cfg.ProviderBaseURL(), cfg.Gateway.APIBase, acct)
	store := tebex.NewClient(cfg.Store, acct.StoreSecret)

	tokens := token.NewManager(acct, provider, logger)
	if err := tokens.Start(ctx); err != nil {
		return nil, err
	}

	info, err := store.Information(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch store information: %w", err)
	}

	registry := settlement.NewRegistry()

	rt := NewRuntime(acct, *info, tokens, provider, store, registry, logger)

	logger.Info("account ready",
		"email", acct.Email,
		"client_id", acct.ClientID,
		"store", info.Account.Name,
	)
	return rt, nil
}

// NewRuntime assembles the services for one account from its collaborators.
func NewRuntime(
	acct domain.Account,
	info application.StoreInformation,
	tokens *token.Manager,
	provider application.VippsClient,
	store application.TebexClient,
	registry *settlement.Registry,
	logger *slog.Logger,
) *Runtime {
	return &Runtime{
		Account: acct,
		Store:   info,
		Tokens:  tokens,
		Initiation: services.NewInitiationService(
			acct, info.Account.Name, tokens, provider, store, logger,
		),
		Settlement: services.NewSettlementCoordinator(
			acct, info.Account.Name, tokens, provider, store, registry, logger,
		),
	}
}
