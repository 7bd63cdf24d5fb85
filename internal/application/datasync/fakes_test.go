package datasync_test

import (
	"context"
	"errors"
	"sync"

	"github.com/Ashraful7679/Engine-2-Mufller/internal/application/datasync"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain/entity"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain/repository"
)

var errRemote = errors.New("remoto caído")

// fakeRemote almacén remoto en memoria con fallos y bloqueos configurables.
type fakeRemote struct {
	mu         sync.Mutex
	configured bool
	rows       map[string][]repository.Row
	selectErr  error
	insertErr  error
	updateErr  map[string]error         // por id
	block      map[string]chan struct{} // Update de ese id espera hasta cerrar el canal

	selects int
	inserts [][]repository.Row
	updates []entity.Patch
}

func newFakeRemote(configured bool) *fakeRemote {
	return &fakeRemote{
		configured: configured,
		rows:       map[string][]repository.Row{},
		updateErr:  map[string]error{},
		block:      map[string]chan struct{}{},
	}
}

func (f *fakeRemote) Configured() bool { return f.configured }

func (f *fakeRemote) Select(_ context.Context, collection string) ([]repository.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selects++
	if f.selectErr != nil {
		return nil, f.selectErr
	}
	out := make([]repository.Row, 0, len(f.rows[collection]))
	for _, r := range f.rows[collection] {
		cp := repository.Row{}
		for k, v := range r {
			cp[k] = v
		}
		out = append(out, cp)
	}
	return out, nil
}

func (f *fakeRemote) Insert(_ context.Context, collection string, rows []repository.Row) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts = append(f.inserts, rows)
	if f.insertErr != nil {
		return f.insertErr
	}
	f.rows[collection] = append(f.rows[collection], rows...)
	return nil
}

func (f *fakeRemote) Update(_ context.Context, collection, id string, patch entity.Patch) error {
	f.mu.Lock()
	ch := f.block[id]
	f.mu.Unlock()
	if ch != nil {
		<-ch
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, patch)
	if err := f.updateErr[id]; err != nil {
		return err
	}
	for _, r := range f.rows[collection] {
		if r["id"] == id {
			for k, v := range patch {
				r[k] = v
			}
		}
	}
	return nil
}

func (f *fakeRemote) counts() (selects, inserts, updates int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selects, len(f.inserts), len(f.updates)
}

// staticSeed semilla de prueba.
type staticSeed map[string][]repository.Row

func (s staticSeed) Rows(collection string) []repository.Row {
	out := make([]repository.Row, 0, len(s[collection]))
	for _, r := range s[collection] {
		cp := repository.Row{}
		for k, v := range r {
			cp[k] = v
		}
		out = append(out, cp)
	}
	return out
}

func testSeed() staticSeed {
	return staticSeed{
		entity.CollectionUsers: {
			{"id": "u1", "name": "Admin", "role": "admin", "password": "secret"},
			{"id": "u2", "name": "Manager", "role": "manager"},
		},
		entity.CollectionProducts: {
			{"id": "p1", "name": "Muffler", "sku": "MUF-1", "stock": 3},
		},
		entity.CollectionTransactions: {},
		entity.CollectionCashFlows: {
			{"id": "c1", "type": "expense", "amount": 10},
		},
	}
}

// recordingMetrics guarda los eventos emitidos.
type recordingMetrics struct {
	mu       sync.Mutex
	sources  []string
	failures []string
	reverts  int
}

func (m *recordingMetrics) CollectionLoaded(collection string, source datasync.Source) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sources = append(m.sources, collection+":"+string(source))
}

func (m *recordingMetrics) RemoteWriteFailed(collection, op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = append(m.failures, collection+":"+op)
}

func (m *recordingMetrics) EditReverted(string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reverts++
}
