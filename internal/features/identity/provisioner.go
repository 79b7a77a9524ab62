package identity

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Provisioner guarantees a durable provider account for every principal.
// Repeated calls converge to exactly one account per email, whatever state
// a previous pass failed in.
type Provisioner interface {
	// EnsureIdentity verifies the cached UID, adopts an existing account by
	// email, or creates a new one, in that order. The returned created flag
	// is true only when a brand-new provider account was issued. The caller
	// persists the UID onto the principal's relational row.
	EnsureIdentity(ctx context.Context, cachedUID, email, password, displayName string) (string, bool, error)
}

type ProvisionerImpl struct {
	Provider Provider
	Log      *zap.Logger
}

func NewProvisioner(provider Provider, log *zap.Logger) Provisioner {
	return &ProvisionerImpl{
		Provider: provider,
		Log:      log,
	}
}

func (p *ProvisionerImpl) EnsureIdentity(ctx context.Context, cachedUID, email, password, displayName string) (string, bool, error) {
	if cachedUID != "" {
		if _, err := p.Provider.GetUser(ctx, cachedUID); err == nil {
			return cachedUID, false, nil
		} else {
			p.Log.Warn("cached identity UID no longer resolves, reconciling by email",
				zap.String("uid", cachedUID), zap.String("email", email), zap.Error(err))
		}
	}

	// Email is the idempotency guard: adopt before creating, so two runs can
	// never issue two provider accounts for the same address.
	account, err := p.Provider.GetUserByEmail(ctx, email)
	if err == nil {
		return account.UID, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return "", false, err
	}

	account, err = p.Provider.CreateUser(ctx, email, password, displayName)
	if err != nil {
		return "", false, err
	}

	p.Log.Info("provider account created", zap.String("email", email), zap.String("uid", account.UID))
	return account.UID, true, nil
}
