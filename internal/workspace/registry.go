// Package workspace keeps one set of view controllers per browser client
// and evicts the ones that have been idle for too long.
package workspace

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/angelmondragon/storefront/internal/cartview"
	"github.com/angelmondragon/storefront/internal/notify"
	"github.com/angelmondragon/storefront/internal/products"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
	"github.com/angelmondragon/storefront/pkg/session"
)

const (
	defaultIdleTTL       = 30 * time.Minute
	defaultSweepInterval = time.Minute
)

// Params configure a Registry.
type Params struct {
	Logger          *logger.Logger
	Catalog         Catalog
	Carts           cartview.Resolver
	Store           session.Store
	Metrics         *metrics.ViewMetrics
	PageSize        int
	NotificationTTL time.Duration
	IdleTTL         time.Duration
	SweepInterval   time.Duration
	Now             func() time.Time
}

// Registry hands out workspaces by client id.
type Registry struct {
	params Params
	logg   *logger.Logger
	now    func() time.Time

	mu         sync.Mutex
	workspaces map[string]*Workspace

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewRegistry builds a registry and starts its idle sweeper.
func NewRegistry(params Params) (*Registry, error) {
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart resolver required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("session store required")
	}
	if params.Logger == nil {
		params.Logger = logger.Nop()
	}
	if params.IdleTTL <= 0 {
		params.IdleTTL = defaultIdleTTL
	}
	if params.SweepInterval <= 0 {
		params.SweepInterval = defaultSweepInterval
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	r := &Registry{
		params:     params,
		logg:       params.Logger,
		now:        now,
		workspaces: make(map[string]*Workspace),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	go r.run()
	return r, nil
}

// Get returns the client's workspace, creating it on first use.
func (r *Registry) Get(ctx context.Context, clientID string) (*Workspace, error) {
	if clientID == "" {
		return nil, fmt.Errorf("client id required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if ws, ok := r.workspaces[clientID]; ok {
		ws.lastSeen = r.now()
		return ws, nil
	}
	ws := r.newWorkspace(clientID)
	r.workspaces[clientID] = ws
	r.params.Metrics.SetWorkspaces(len(r.workspaces))
	r.logg.Info(r.logg.WithClientID(ctx, clientID), "workspace created")
	return ws, nil
}

func (r *Registry) newWorkspace(clientID string) *Workspace {
	notifier := notify.New(notify.WithDefaultDuration(r.params.NotificationTTL))
	deps := products.Deps{
		Catalog:  r.params.Catalog,
		Carts:    r.params.Carts,
		Notifier: notifier,
		Scope:    session.NewScope(r.params.Store, clientID),
		Logger:   r.logg,
		Stale:    r.params.Metrics,
		PageSize: r.params.PageSize,
	}
	ws := &Workspace{
		ClientID: clientID,
		Notifier: notifier,
		Products: products.NewListController(deps),
		Featured: products.NewFeaturedController(deps),
		Cart: cartview.NewController(cartview.Deps{
			Catalog:  r.params.Catalog,
			Carts:    r.params.Carts,
			Notifier: notifier,
			Scope:    deps.Scope,
			Logger:   r.logg,
			Stale:    r.params.Metrics,
		}),
		catalog:  r.params.Catalog,
		deps:     deps,
		logg:     r.logg,
		lastSeen: r.now(),
	}
	r.trackNotifications(ws)
	return ws
}

// trackNotifications mirrors the workspace's active toasts into the
// notifications gauge.
func (r *Registry) trackNotifications(ws *Workspace) {
	if r.params.Metrics == nil {
		return
	}
	pushed, err := ws.Notifier.Subscribe(func(notify.Notification) { r.params.Metrics.NotificationPushed() })
	if err != nil {
		r.logg.Warn(r.logg.WithClientID(context.Background(), ws.ClientID), "notification tracking disabled")
		return
	}
	removed, err := ws.Notifier.SubscribeRemoved(func(string) { r.params.Metrics.NotificationRemoved() })
	if err != nil {
		pushed()
		r.logg.Warn(r.logg.WithClientID(context.Background(), ws.ClientID), "notification tracking disabled")
		return
	}
	ws.unsub = append(ws.unsub, pushed, removed)
}

// Len reports how many workspaces are held.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workspaces)
}

// Sweep evicts workspaces idle for longer than the configured TTL and
// returns how many were removed.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.params.IdleTTL)
	r.mu.Lock()
	var evicted []*Workspace
	for id, ws := range r.workspaces {
		if ws.lastSeen.Before(cutoff) {
			evicted = append(evicted, ws)
			delete(r.workspaces, id)
		}
	}
	r.params.Metrics.SetWorkspaces(len(r.workspaces))
	r.mu.Unlock()

	for _, ws := range evicted {
		ws.close()
	}
	if len(evicted) > 0 {
		r.logg.Debug(r.logg.WithField(context.Background(), "evicted", len(evicted)), "idle workspaces evicted")
	}
	return len(evicted)
}

func (r *Registry) run() {
	defer close(r.done)
	ticker := time.NewTicker(r.params.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// Close stops the sweeper and releases every workspace.
func (r *Registry) Close() {
	r.closeOnce.Do(func() {
		close(r.stop)
		<-r.done

		r.mu.Lock()
		all := r.workspaces
		r.workspaces = make(map[string]*Workspace)
		r.params.Metrics.SetWorkspaces(0)
		r.mu.Unlock()
		for _, ws := range all {
			ws.close()
		}
	})
}
