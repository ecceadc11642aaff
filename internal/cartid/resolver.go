// Package cartid resolves the persistent cart of a client, creating it on
// first use.
package cartid

import (
	"context"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/session"
	"github.com/angelmondragon/storefront/pkg/types"
	"golang.org/x/sync/singleflight"
)

// CartCreator mints carts on the catalog server.
type CartCreator interface {
	CreateCart(ctx context.Context) (*types.Cart, error)
}

// Resolver returns the cart id persisted for a client. Concurrent first-time
// callers for the same client share a single creation.
type Resolver struct {
	carts CartCreator
	logg  *logger.Logger
	group singleflight.Group
}

func NewResolver(carts CartCreator, logg *logger.Logger) *Resolver {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Resolver{carts: carts, logg: logg}
}

// Resolve returns the persisted cart id, creating and persisting a cart when
// none exists. A persisted id is returned without any network call.
func (r *Resolver) Resolve(ctx context.Context, scope session.Scope) (types.CartID, error) {
	if id, ok, err := r.stored(ctx, scope); err != nil || ok {
		return id, err
	}

	// The creation outlives any single caller's cancellation; every waiter
	// relies on its result.
	createCtx := context.WithoutCancel(ctx)
	result, err, _ := r.group.Do(scope.ClientID(), func() (any, error) {
		return r.create(createCtx, scope)
	})
	if err != nil {
		return 0, err
	}
	return result.(types.CartID), nil
}

func (r *Resolver) create(ctx context.Context, scope session.Scope) (types.CartID, error) {
	if id, ok, err := r.stored(ctx, scope); err != nil || ok {
		return id, err
	}

	cart, err := r.carts.CreateCart(ctx)
	if err != nil {
		return 0, err
	}

	stored, created, err := scope.SetIfAbsent(ctx, session.KeyCartID, cart.ID.String())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to persist cart id")
	}
	if created {
		r.logg.Info(r.logg.WithCartID(r.logg.WithClientID(ctx, scope.ClientID()), cart.ID.String()), "cart created")
		return cart.ID, nil
	}

	id, err := types.ParseCartID(stored)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persisted cart id is invalid")
	}
	r.logg.Warn(r.logg.WithFields(ctx, map[string]any{
		"client_id":        scope.ClientID(),
		"cart_id":          id.String(),
		"orphaned_cart_id": cart.ID.String(),
	}), "cart id already persisted by another writer")
	return id, nil
}

func (r *Resolver) stored(ctx context.Context, scope session.Scope) (types.CartID, bool, error) {
	raw, ok, err := scope.Get(ctx, session.KeyCartID)
	if err != nil {
		return 0, false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to read cart id")
	}
	if !ok {
		return 0, false, nil
	}
	id, err := types.ParseCartID(raw)
	if err != nil {
		r.logg.Warn(r.logg.WithClientID(ctx, scope.ClientID()), "discarding invalid persisted cart id")
		if delErr := scope.Delete(ctx, session.KeyCartID); delErr != nil {
			return 0, false, pkgerrors.Wrap(pkgerrors.CodeInternal, delErr, "failed to clear cart id")
		}
		return 0, false, nil
	}
	return id, true, nil
}

// Clear forgets the persisted cart id. The next Resolve creates a new cart.
func (r *Resolver) Clear(ctx context.Context, scope session.Scope) error {
	if err := scope.Delete(ctx, session.KeyCartID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to clear cart id")
	}
	return nil
}
