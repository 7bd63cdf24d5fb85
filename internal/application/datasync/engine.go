package datasync

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain/entity"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain/repository"
)

// EngineDeps dependencias del motor de sincronización.
type EngineDeps struct {
	Remote  repository.RemoteStore // nil equivale a no configurado
	Seed    SeedSource
	Logger  zerolog.Logger
	Metrics Metrics // opcional
}

// Engine agrupa las cuatro colecciones compartidas del taller.
type Engine struct {
	Users        *Collection[entity.User]
	Transactions *Collection[entity.Transaction]
	Products     *Collection[entity.Product]
	CashFlows    *Collection[entity.CashFlow]

	remote repository.RemoteStore
	log    zerolog.Logger
}

// Snapshot copia consistente de todas las colecciones para los cálculos de agregados.
type Snapshot struct {
	Users        []entity.User
	Transactions []entity.Transaction
	Products     []entity.Product
	CashFlows    []entity.CashFlow
}

// NewEngine construye el motor. Las colecciones quedan vacías hasta LoadAll.
func NewEngine(deps EngineDeps) *Engine {
	log := deps.Logger.With().Str("component", "datasync").Logger()
	return &Engine{
		Users:        NewCollection[entity.User](entity.CollectionUsers, deps.Remote, deps.Seed, log, deps.Metrics),
		Transactions: NewCollection[entity.Transaction](entity.CollectionTransactions, deps.Remote, deps.Seed, log, deps.Metrics),
		Products:     NewCollection[entity.Product](entity.CollectionProducts, deps.Remote, deps.Seed, log, deps.Metrics),
		CashFlows:    NewCollection[entity.CashFlow](entity.CollectionCashFlows, deps.Remote, deps.Seed, log, deps.Metrics),
		remote:       deps.Remote,
		log:          log,
	}
}

// Mode devuelve "remote" si hay almacén remoto configurado, si no "local".
func (e *Engine) Mode() string {
	if e.remote != nil && e.remote.Configured() {
		return "remote"
	}
	return "local"
}

// LoadAll carga las cuatro colecciones en paralelo. Nunca falla (ver Collection.Load).
func (e *Engine) LoadAll(ctx context.Context) {
	if e.Mode() == "local" {
		e.log.Info().Msg("credenciales remotas ausentes: modo demo local")
	}
	var g errgroup.Group
	g.Go(func() error { e.Users.Load(ctx); return nil })
	g.Go(func() error { e.Transactions.Load(ctx); return nil })
	g.Go(func() error { e.Products.Load(ctx); return nil })
	g.Go(func() error { e.CashFlows.Load(ctx); return nil })
	_ = g.Wait()
}

// Snapshot devuelve una copia de cada colección tomada bajo su propio lock.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Users:        e.Users.Snapshot(),
		Transactions: e.Transactions.Snapshot(),
		Products:     e.Products.Snapshot(),
		CashFlows:    e.CashFlows.Snapshot(),
	}
}

// Wait bloquea hasta que terminen todas las fases remotas pendientes.
func (e *Engine) Wait() {
	e.Users.Wait()
	e.Transactions.Wait()
	e.Products.Wait()
	e.CashFlows.Wait()
}
