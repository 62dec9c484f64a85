// Package graphchain wires the configuration, store, chain, and HTTP service
// into one engine.
package graphchain

import (
	"github.com/provchain/graphchain/src/canonical"
	"github.com/provchain/graphchain/src/chain"
	"github.com/provchain/graphchain/src/config"
	"github.com/provchain/graphchain/src/service"
	"github.com/provchain/graphchain/src/store"
	"github.com/sirupsen/logrus"
)

// GraphChain is the top-level engine.
type GraphChain struct {
	Config  *config.Config
	Store   store.Store
	Chain   *chain.Chain
	Service *service.Service

	canon  *canonical.Canonicalizer
	logger *logrus.Entry
}

// NewGraphChain ...
func NewGraphChain(conf *config.Config) *GraphChain {
	engine := &GraphChain{
		Config: conf,
		logger: conf.Logger(),
	}

	return engine
}

func (g *GraphChain) initStore() error {
	if !g.Config.Store && !g.Config.Bootstrap {
		g.Store = store.NewInmemStore()

		g.logger.Debug("created new in-mem store")

		return nil
	}

	g.logger.WithField("path", g.Config.DatabaseDir).Debug("Attempting to load or create database")

	var badgerStore *store.BadgerStore
	var err error

	if g.Config.Bootstrap {
		//bootstrap requires an existing database
		badgerStore, err = store.LoadBadgerStore(g.Config.DatabaseDir)
	} else {
		badgerStore, err = store.LoadOrCreateBadgerStore(g.Config.DatabaseDir)
	}

	if err != nil {
		return err
	}

	if badgerStore.NeedBootstrap() {
		g.logger.Debug("loaded badger store from existing database")
	} else {
		g.logger.Debug("created new badger store from fresh database")
	}

	g.Store = badgerStore

	return nil
}

func (g *GraphChain) initChain() error {
	g.canon = canonical.New(g.Config.MaxIterations)

	if badgerStore, ok := g.Store.(*store.BadgerStore); ok && badgerStore.NeedBootstrap() {
		loaded, err := chain.LoadChain(g.Store, g.canon, g.logger)
		if err != nil {
			return err
		}
		g.Chain = loaded

		return nil
	}

	created, err := chain.NewChain(g.Store, g.canon, g.logger)
	if err != nil {
		return err
	}
	g.Chain = created

	return nil
}

func (g *GraphChain) initService() error {
	if !g.Config.NoService {
		g.Service = service.NewService(g.Config.ServiceAddr, g.Chain, g.canon, g.logger)
	}
	return nil
}

// Init instantiates the store, the chain, and the service, in that order.
func (g *GraphChain) Init() error {
	if err := g.initStore(); err != nil {
		return err
	}

	if err := g.initChain(); err != nil {
		return err
	}

	if err := g.initService(); err != nil {
		return err
	}

	return nil
}

// Run serves the HTTP API. This is a blocking call when the service is
// enabled.
func (g *GraphChain) Run() {
	if g.Service != nil {
		g.Service.Serve()
	}
}

// Shutdown closes the underlying store.
func (g *GraphChain) Shutdown() error {
	g.logger.Debug("Shutdown")
	return g.Store.Close()
}
