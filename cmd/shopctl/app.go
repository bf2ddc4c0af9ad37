package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/javaweb/webshop-client/internal/address"
	"github.com/javaweb/webshop-client/internal/cart"
	"github.com/javaweb/webshop-client/internal/catalog"
	"github.com/javaweb/webshop-client/internal/credstore"
	"github.com/javaweb/webshop-client/internal/gateway"
	"github.com/javaweb/webshop-client/internal/orders"
	"github.com/javaweb/webshop-client/internal/session"
	"github.com/javaweb/webshop-client/internal/stats"
	"github.com/javaweb/webshop-client/pkg/config"
	"github.com/javaweb/webshop-client/pkg/logger"
	"github.com/javaweb/webshop-client/pkg/metrics"
	"github.com/javaweb/webshop-client/pkg/redis"
)

// app wires the full client stack for one CLI invocation.
type app struct {
	cfg     *config.Config
	logger  *logger.Logger
	session *session.Container
	cart    *cart.Container
	catalog *catalog.Service
	orders  *orders.Service
	address *address.Service
	stats   *stats.Service

	closers []func() error
}

// bootstrap loads configuration and builds the credential store, the
// gateway, and the state containers in dependency order.
func bootstrap(ctx context.Context) (*app, error) {
	logg := logger.New(logger.Options{ServiceName: "shopctl"})

	if err := godotenv.Load(); err != nil {
		logg.Debug(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logg = logger.New(logger.Options{
		ServiceName: "shopctl",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	a := &app{cfg: cfg, logger: logg}

	store, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, store.Close)

	gw, err := gateway.NewClient(cfg.Gateway, logg, metrics.NewGatewayMetrics(prometheus.NewRegistry()))
	if err != nil {
		return nil, multierr.Append(err, a.close())
	}

	sess, err := session.NewContainer(ctx, session.Params{API: gw, Store: store, Logger: logg})
	if err != nil {
		return nil, multierr.Append(err, a.close())
	}
	gw.SetTokenSource(sess)

	basket, err := cart.NewContainer(cart.Params{API: gw, Session: sess, Logger: logg})
	if err != nil {
		return nil, multierr.Append(err, a.close())
	}

	// A 401 anywhere invalidates the whole session and its cart view.
	gw.OnUnauthorized(func(ctx context.Context) {
		sess.ForceLogout(ctx)
		basket.Reset()
	})

	shop, err := catalog.NewService(gw)
	if err != nil {
		return nil, multierr.Append(err, a.close())
	}
	book, err := orders.NewService(gw, sess)
	if err != nil {
		return nil, multierr.Append(err, a.close())
	}
	addrs, err := address.NewService(gw, sess)
	if err != nil {
		return nil, multierr.Append(err, a.close())
	}
	dash, err := stats.NewService(book)
	if err != nil {
		return nil, multierr.Append(err, a.close())
	}

	a.session = sess
	a.cart = basket
	a.catalog = shop
	a.orders = book
	a.address = addrs
	a.stats = dash
	return a, nil
}

func (a *app) openStore(ctx context.Context) (credstore.Store, error) {
	switch a.cfg.Credentials.NormalizedBackend() {
	case config.CredentialBackendRedis:
		kv, err := redis.New(ctx, a.cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("bootstrapping redis: %w", err)
		}
		store, err := credstore.NewRedisStore(kv, a.cfg.Credentials.Namespace)
		if err != nil {
			return nil, multierr.Append(err, kv.Close())
		}
		return store, nil
	default:
		return credstore.OpenSQLite(a.cfg.Credentials.SQLitePath)
	}
}

func (a *app) close() error {
	var err error
	for i := len(a.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, a.closers[i]())
	}
	a.closers = nil
	return err
}
