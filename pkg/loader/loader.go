// Package loader bootstraps the calendar API client and the identity token
// client. The two loads run independently: a slow or failed load of one never
// holds back the other.
package loader

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mattismoel/canvascal/pkg/calendarapi"
	"github.com/mattismoel/canvascal/pkg/identity"
)

type APILoadFunc func(ctx context.Context) (*calendarapi.Client, error)

type IdentityLoadFunc func(ctx context.Context) (*identity.TokenClient, error)

type Loader struct {
	loadAPI      APILoadFunc
	loadIdentity IdentityLoadFunc
	logger       *zap.Logger

	api      *Future[*calendarapi.Client]
	identity *Future[*identity.TokenClient]
}

func New(loadAPI APILoadFunc, loadIdentity IdentityLoadFunc, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		loadAPI:      loadAPI,
		loadIdentity: loadIdentity,
		logger:       logger,
		api:          NewFuture[*calendarapi.Client](),
		identity:     NewFuture[*identity.TokenClient](),
	}
}

// FromOptions wires the loader to the real calendar and identity loads.
func FromOptions(apiOpts calendarapi.Options, identityOpts identity.Options, logger *zap.Logger) *Loader {
	return New(
		func(ctx context.Context) (*calendarapi.Client, error) {
			return calendarapi.Load(ctx, apiOpts)
		},
		func(ctx context.Context) (*identity.TokenClient, error) {
			return identity.Load(ctx, identityOpts)
		},
		logger,
	)
}

// Start launches both loads. There is no retry: a failed load leaves its
// future resolved with the error for the rest of the session.
func (l *Loader) Start(ctx context.Context) *Loader {
	go func() {
		start := time.Now()
		client, err := l.loadAPI(ctx)
		if err != nil {
			l.logger.Error("could not load calendar api client", zap.Error(err))
		} else {
			l.logger.Info("loaded calendar api client", zap.Duration("took", time.Since(start)))
		}
		l.api.Resolve(client, err)
	}()
	go func() {
		start := time.Now()
		client, err := l.loadIdentity(ctx)
		if err != nil {
			l.logger.Error("could not load identity token client", zap.Error(err))
		} else {
			l.logger.Info("loaded identity token client", zap.Duration("took", time.Since(start)))
		}
		l.identity.Resolve(client, err)
	}()
	return l
}

func (l *Loader) API() *Future[*calendarapi.Client] {
	return l.api
}

func (l *Loader) Identity() *Future[*identity.TokenClient] {
	return l.identity
}
