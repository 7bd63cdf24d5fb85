// Package datasync mantiene en memoria las colecciones compartidas (usuarios, ventas,
// productos, movimientos de caja) consistentes con el almacén remoto.
//
// Reglas de carga:
//   - Remoto no configurado → semilla (modo demo local, no es error).
//   - Lectura OK con filas → se adoptan las filas remotas.
//   - Lectura OK vacía → se siembra el remoto (best-effort) y se adopta la semilla.
//   - Error de lectura → se registra y se adopta la semilla.
//
// Las ediciones se aplican primero en memoria (optimistas) y se confirman en segundo
// plano. Si el remoto rechaza una edición, se descarta del diario y se recarga la
// colección completa (revertir vía recarga).
package datasync

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain/entity"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain/repository"
)

// SeedSource provee las filas semilla integradas de cada colección.
type SeedSource interface {
	Rows(collection string) []repository.Row
}

// edit una edición local registrada en el diario de la colección.
//
// Permanece en el diario mientras esté pendiente o haya una carga en curso que
// pueda no incluirla. Sin carga en curso, el prefijo confirmado del diario se
// incorpora a la base (ver foldConfirmed).
type edit[T entity.Entity] struct {
	seq         uint64
	confirmedAt uint64 // 0 = pendiente
	permanent   bool   // modo demo local: confirmada al crearse, ninguna recarga la descarta
	apply       func(items []T) []T
}

const loadKey = "load"

// Collection caché en memoria de una colección + su motor de sincronización.
// Es seguro para uso concurrente. Las lecturas devuelven copias.
type Collection[T entity.Entity] struct {
	name    string
	remote  repository.RemoteStore
	seed    SeedSource
	log     zerolog.Logger
	metrics Metrics

	mu      sync.RWMutex
	base    []T // última lectura adoptada + ediciones confirmadas ya incorporadas
	items   []T // base + diario aplicado
	journal []*edit[T]
	clock   uint64 // reloj lógico monotónico de la colección
	baseAt  uint64 // inicio de la carga que fijó la base
	loading int    // cargas en curso
	loaded  bool

	flight   singleflight.Group
	inflight sync.WaitGroup

	subsMu sync.Mutex
	subs   []func([]T)
}

// NewCollection construye una colección vacía. Llamar Load antes de usarla.
func NewCollection[T entity.Entity](
	name string,
	remote repository.RemoteStore,
	seed SeedSource,
	log zerolog.Logger,
	metrics Metrics,
) *Collection[T] {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Collection[T]{
		name:    name,
		remote:  remote,
		seed:    seed,
		log:     log.With().Str("collection", name).Logger(),
		metrics: metrics,
	}
}

// Name devuelve el nombre remoto de la colección.
func (c *Collection[T]) Name() string { return c.name }

func (c *Collection[T]) remoteConfigured() bool {
	return c.remote != nil && c.remote.Configured()
}

// Snapshot devuelve una copia consistente del contenido actual.
func (c *Collection[T]) Snapshot() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return clone(c.items)
}

// Find busca una entidad por id en el contenido actual.
func (c *Collection[T]) Find(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := indexOf(c.items, id); i >= 0 {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

// Subscribe registra fn para recibir el nuevo contenido después de cada cambio
// (recarga, edición o alta). fn se invoca fuera del lock de la colección.
func (c *Collection[T]) Subscribe(fn func([]T)) {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	c.subs = append(c.subs, fn)
}

// Wait bloquea hasta que terminen todas las fases remotas en curso (incluidas
// las recargas correctivas que disparen).
func (c *Collection[T]) Wait() {
	c.inflight.Wait()
}

// Load carga la colección desde el remoto (o la semilla) y devuelve el contenido
// adoptado. Nunca falla: todo error termina en la semilla. Las cargas concurrentes
// de una misma colección se fusionan en una sola lectura remota.
func (c *Collection[T]) Load(ctx context.Context) []T {
	v, _, _ := c.flight.Do(loadKey, func() (any, error) {
		return c.load(ctx), nil
	})
	return clone(v.([]T))
}

func (c *Collection[T]) load(ctx context.Context) []T {
	c.mu.Lock()
	c.clock++
	startedAt := c.clock
	c.loading++
	c.mu.Unlock()

	base, source := c.fetch(ctx)

	c.mu.Lock()
	c.loading--
	switch {
	case startedAt < c.baseAt:
		// Una carga iniciada después ya fijó la base; esta lectura es vieja.
	case source == SourceSeed && c.loaded:
		// Sin remoto los datos locales mandan: la semilla solo se adopta una vez.
	default:
		c.base = base
		c.baseAt = startedAt
		c.journal = pruneJournal(c.journal, startedAt)
	}
	c.loaded = true
	c.foldConfirmed()
	c.items = replay(c.base, c.journal)
	snapshot := clone(c.items)
	c.mu.Unlock()

	c.metrics.CollectionLoaded(c.name, source)
	c.log.Debug().Str("source", string(source)).Int("count", len(snapshot)).Msg("colección cargada")
	c.notify(snapshot)
	return snapshot
}

// fetch obtiene el contenido base según el estado del remoto.
func (c *Collection[T]) fetch(ctx context.Context) ([]T, Source) {
	if !c.remoteConfigured() {
		return c.seedItems(), SourceSeed
	}

	rows, err := c.remote.Select(ctx, c.name)
	if err != nil {
		c.log.Warn().Err(err).Msg("lectura remota fallida, usando semilla")
		return c.seedItems(), SourceFallback
	}

	if len(rows) == 0 {
		c.log.Info().Msg("colección remota vacía, sembrando")
		if err := c.remote.Insert(ctx, c.name, c.seedRows()); err != nil {
			c.metrics.RemoteWriteFailed(c.name, "seed")
			c.log.Warn().Err(err).Msg("siembra remota fallida; la semilla local se mantiene")
		}
		return c.seedItems(), SourceSeeded
	}

	items, err := decodeRows[T](rows)
	if err != nil {
		c.log.Warn().Err(err).Msg("filas remotas ilegibles, usando semilla")
		return c.seedItems(), SourceFallback
	}
	return items, SourceRemote
}

func (c *Collection[T]) seedRows() []repository.Row {
	if c.seed == nil {
		return nil
	}
	return c.seed.Rows(c.name)
}

func (c *Collection[T]) seedItems() []T {
	items, err := decodeRows[T](c.seedRows())
	if err != nil {
		c.log.Error().Err(err).Msg("semilla integrada inválida")
		return []T{}
	}
	return items
}

// Mutate aplica patch de forma optimista a la entidad id y lo confirma en segundo plano.
//
// Devuelve domain.ErrNotFound si no hay entidad con ese id y domain.ErrInvalidInput si
// el patch no encaja en la entidad; en ambos casos no se aplica nada. Los fallos
// remotos no se devuelven: se revierten recargando la colección.
func (c *Collection[T]) Mutate(ctx context.Context, id string, patch entity.Patch) error {
	patch = sanitizePatch(patch)

	c.mu.Lock()
	idx := indexOf(c.items, id)
	if idx < 0 {
		c.mu.Unlock()
		return fmt.Errorf("%s %q: %w", c.name, id, domain.ErrNotFound)
	}
	if len(patch) == 0 {
		c.mu.Unlock()
		return nil
	}
	if _, err := applyPatch(c.items[idx], patch); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("%s %q: %w: %v", c.name, id, domain.ErrInvalidInput, err)
	}
	e := c.record(func(items []T) []T { return patchItems(items, id, patch) })
	snapshot := clone(c.items)
	c.mu.Unlock()

	c.notify(snapshot)

	if !c.remoteConfigured() {
		return nil
	}
	c.reconcile(ctx, e, "update", func(ctx context.Context) error {
		return c.remote.Update(ctx, c.name, id, patch)
	})
	return nil
}

// Append agrega item de forma optimista y lo inserta en segundo plano.
// Devuelve domain.ErrInvalidInput si item no tiene id o el id ya existe.
func (c *Collection[T]) Append(ctx context.Context, item T) error {
	id := item.EntityID()
	if id == "" {
		return fmt.Errorf("%s: id vacío: %w", c.name, domain.ErrInvalidInput)
	}
	row, err := encodeRow(item)
	if err != nil {
		return fmt.Errorf("%s: %w: %v", c.name, domain.ErrInvalidInput, err)
	}

	c.mu.Lock()
	if indexOf(c.items, id) >= 0 {
		c.mu.Unlock()
		return fmt.Errorf("%s %q ya existe: %w", c.name, id, domain.ErrInvalidInput)
	}
	e := c.record(func(items []T) []T { return appendItem(items, item) })
	snapshot := clone(c.items)
	c.mu.Unlock()

	c.notify(snapshot)

	if !c.remoteConfigured() {
		return nil
	}
	c.reconcile(ctx, e, "insert", func(ctx context.Context) error {
		return c.remote.Insert(ctx, c.name, []repository.Row{row})
	})
	return nil
}

// record registra la edición en el diario y la aplica al contenido actual.
// Debe llamarse con c.mu tomado.
func (c *Collection[T]) record(apply func([]T) []T) *edit[T] {
	c.clock++
	e := &edit[T]{
		seq:   c.clock,
		apply: apply,
	}
	if !c.remoteConfigured() {
		e.permanent = true
		e.confirmedAt = e.seq
	}
	c.journal = append(c.journal, e)
	c.items = apply(c.items)
	c.foldConfirmed()
	return e
}

// foldConfirmed incorpora a la base el prefijo confirmado del diario. Con una carga
// en curso no hace nada: su lectura puede no incluir esas ediciones.
// Debe llamarse con c.mu tomado.
func (c *Collection[T]) foldConfirmed() {
	if !c.loaded || c.loading > 0 {
		return
	}
	n := 0
	for n < len(c.journal) && c.journal[n].confirmedAt != 0 {
		c.base = c.journal[n].apply(c.base)
		n++
	}
	if n > 0 {
		c.journal = append(c.journal[:0:0], c.journal[n:]...)
	}
}

// reconcile ejecuta la fase remota de una edición sin bloquear al llamador.
// La fase remota no se cancela con el contexto del llamador.
func (c *Collection[T]) reconcile(ctx context.Context, e *edit[T], op string, call func(context.Context) error) {
	ctx = context.WithoutCancel(ctx)
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		err := call(ctx)

		c.mu.Lock()
		if err == nil {
			c.clock++
			e.confirmedAt = c.clock
			c.foldConfirmed()
			c.mu.Unlock()
			return
		}
		c.journal = removeEdit(c.journal, e)
		c.items = replay(c.base, c.journal)
		snapshot := clone(c.items)
		c.mu.Unlock()

		c.notify(snapshot)
		c.metrics.RemoteWriteFailed(c.name, op)
		c.metrics.EditReverted(c.name)
		c.log.Warn().Err(err).Str("op", op).Uint64("seq", e.seq).Msg("escritura remota fallida, recargando colección")
		// Una carga en curso pudo aplicar la edición rechazada; la correctiva lee de nuevo.
		c.flight.Forget(loadKey)
		c.Load(ctx)
	}()
}

func (c *Collection[T]) notify(snapshot []T) {
	c.subsMu.Lock()
	subs := append([]func([]T){}, c.subs...)
	c.subsMu.Unlock()
	for _, fn := range subs {
		fn(clone(snapshot))
	}
}

// pruneJournal descarta las ediciones confirmadas antes de que empezara la recarga:
// la lectura remota ya las incluye.
func pruneJournal[T entity.Entity](journal []*edit[T], startedAt uint64) []*edit[T] {
	kept := journal[:0:0]
	for _, e := range journal {
		if !e.permanent && e.confirmedAt != 0 && e.confirmedAt < startedAt {
			continue
		}
		kept = append(kept, e)
	}
	return kept
}

// replay reconstruye el contenido aplicando el diario, en orden, sobre la base.
func replay[T entity.Entity](base []T, journal []*edit[T]) []T {
	items := clone(base)
	for _, e := range journal {
		items = e.apply(items)
	}
	return items
}

func removeEdit[T entity.Entity](journal []*edit[T], target *edit[T]) []*edit[T] {
	kept := journal[:0:0]
	for _, e := range journal {
		if e != target {
			kept = append(kept, e)
		}
	}
	return kept
}

// patchItems devuelve una copia de items con patch aplicado a la entidad id.
// Si la entidad ya no existe, o el patch ya no encaja, items queda igual.
func patchItems[T entity.Entity](items []T, id string, patch entity.Patch) []T {
	out := clone(items)
	if i := indexOf(out, id); i >= 0 {
		if updated, err := applyPatch(out[i], patch); err == nil {
			out[i] = updated
		}
	}
	return out
}

// appendItem agrega item salvo que la base ya lo traiga (alta ya confirmada remotamente).
func appendItem[T entity.Entity](items []T, item T) []T {
	if indexOf(items, item.EntityID()) >= 0 {
		return items
	}
	out := make([]T, len(items), len(items)+1)
	copy(out, items)
	return append(out, item)
}

func indexOf[T entity.Entity](items []T, id string) int {
	for i, item := range items {
		if item.EntityID() == id {
			return i
		}
	}
	return -1
}

func clone[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}
