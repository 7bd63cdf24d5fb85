package datasync_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ashraful7679/Engine-2-Mufller/internal/application/datasync"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain/entity"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain/repository"
)

func seedUsers() []entity.User {
	return []entity.User{
		{ID: "u1", Name: "Admin", Role: entity.RoleAdmin, Password: "secret"},
		{ID: "u2", Name: "Manager", Role: entity.RoleManager},
	}
}

func newUsers(remote repository.RemoteStore, m datasync.Metrics) *datasync.Collection[entity.User] {
	return datasync.NewCollection[entity.User](entity.CollectionUsers, remote, testSeed(), zerolog.Nop(), m)
}

// remoteWithUsers remoto configurado con dos usuarios distintos de la semilla.
func remoteWithUsers() *fakeRemote {
	r := newFakeRemote(true)
	r.rows[entity.CollectionUsers] = []repository.Row{
		{"id": "u1", "name": "Admin Remoto", "role": "admin"},
		{"id": "u2", "name": "Manager Remoto", "role": "manager"},
	}
	return r
}

// ──────────────────────────────────────────────────────────────────────────────
// Load
// ──────────────────────────────────────────────────────────────────────────────

func TestLoad_SinRemotoConfigurado_DevuelveSemillaSinEscrituras(t *testing.T) {
	remote := newFakeRemote(false)
	metrics := &recordingMetrics{}
	users := newUsers(remote, metrics)

	got := users.Load(context.Background())

	assert.Equal(t, seedUsers(), got)
	assert.Equal(t, seedUsers(), users.Snapshot())
	selects, inserts, updates := remote.counts()
	assert.Zero(t, selects, "en modo demo no se consulta el remoto")
	assert.Zero(t, inserts)
	assert.Zero(t, updates)
	assert.Equal(t, []string{"users:seed"}, metrics.sources)
}

func TestLoad_RemotoNil_DevuelveSemilla(t *testing.T) {
	users := newUsers(nil, nil)
	assert.Equal(t, seedUsers(), users.Load(context.Background()))
}

func TestLoad_RemotoVacio_SiembraYAdoptaSemilla(t *testing.T) {
	remote := newFakeRemote(true)
	users := newUsers(remote, nil)

	got := users.Load(context.Background())

	assert.Equal(t, seedUsers(), got)
	require.Len(t, remote.inserts, 1)
	assert.Len(t, remote.inserts[0], 2, "se envía la semilla completa")
	assert.Len(t, remote.rows[entity.CollectionUsers], 2)
}

func TestLoad_RemotoVacioYSiembraFallida_AdoptaSemillaIgual(t *testing.T) {
	remote := newFakeRemote(true)
	remote.insertErr = errRemote
	metrics := &recordingMetrics{}
	users := newUsers(remote, metrics)

	got := users.Load(context.Background())

	assert.Equal(t, seedUsers(), got, "la semilla local se mantiene aunque falle la siembra remota")
	assert.Equal(t, []string{"users:seed"}, metrics.failures)
	assert.Equal(t, []string{"users:seeded"}, metrics.sources)
}

func TestLoad_ErrorDeLectura_UsaSemilla(t *testing.T) {
	remote := remoteWithUsers()
	remote.selectErr = errRemote
	metrics := &recordingMetrics{}
	users := newUsers(remote, metrics)

	got := users.Load(context.Background())

	assert.Equal(t, seedUsers(), got)
	_, inserts, _ := remote.counts()
	assert.Zero(t, inserts, "un error de lectura no siembra")
	assert.Equal(t, []string{"users:fallback"}, metrics.sources)
}

func TestLoad_RemotoConFilas_LasAdopta(t *testing.T) {
	users := newUsers(remoteWithUsers(), nil)

	got := users.Load(context.Background())

	require.Len(t, got, 2)
	assert.Equal(t, "Admin Remoto", got[0].Name)
	assert.Equal(t, "Manager Remoto", got[1].Name)
}

func TestLoad_FilasIlegibles_UsaSemilla(t *testing.T) {
	remote := newFakeRemote(true)
	remote.rows[entity.CollectionUsers] = []repository.Row{{"name": "sin id"}}
	users := newUsers(remote, nil)

	assert.Equal(t, seedUsers(), users.Load(context.Background()))
}

func TestLoad_NotificaSuscriptores(t *testing.T) {
	users := newUsers(nil, nil)
	var seen [][]entity.User
	users.Subscribe(func(list []entity.User) { seen = append(seen, list) })

	users.Load(context.Background())

	require.Len(t, seen, 1)
	assert.Equal(t, seedUsers(), seen[0])
}

// ──────────────────────────────────────────────────────────────────────────────
// Mutate
// ──────────────────────────────────────────────────────────────────────────────

func TestMutate_AplicaOptimistaYConfirma(t *testing.T) {
	remote := remoteWithUsers()
	users := newUsers(remote, nil)
	users.Load(context.Background())

	err := users.Mutate(context.Background(), "u1", entity.Patch{"name": "Nuevo"})
	require.NoError(t, err)

	u1, ok := users.Find("u1")
	require.True(t, ok)
	assert.Equal(t, "Nuevo", u1.Name, "la edición es visible antes de la confirmación remota")
	assert.Equal(t, entity.RoleAdmin, u1.Role, "los campos no incluidos no cambian")
	u2, _ := users.Find("u2")
	assert.Equal(t, "Manager Remoto", u2.Name, "las demás entidades no cambian")

	users.Wait()
	require.Len(t, remote.updates, 1)
	assert.Equal(t, entity.Patch{"name": "Nuevo"}, remote.updates[0])

	// Una recarga posterior trae el valor confirmado desde el remoto.
	users.Load(context.Background())
	u1, _ = users.Find("u1")
	assert.Equal(t, "Nuevo", u1.Name)
}

func TestMutate_FalloRemoto_RevierteRecargando(t *testing.T) {
	remote := remoteWithUsers()
	remote.updateErr["u1"] = errRemote
	metrics := &recordingMetrics{}
	users := newUsers(remote, metrics)
	users.Load(context.Background())

	require.NoError(t, users.Mutate(context.Background(), "u1", entity.Patch{"name": "Nuevo"}))
	users.Wait()

	u1, _ := users.Find("u1")
	assert.Equal(t, "Admin Remoto", u1.Name, "la recarga devuelve el estado real del remoto")
	selects, _, _ := remote.counts()
	assert.Equal(t, 2, selects, "carga inicial + recarga correctiva")
	assert.Equal(t, 1, metrics.reverts)
	assert.Equal(t, []string{"users:update"}, metrics.failures)
}

func TestMutate_IDInexistente_ErrNotFound(t *testing.T) {
	remote := remoteWithUsers()
	users := newUsers(remote, nil)
	users.Load(context.Background())

	err := users.Mutate(context.Background(), "nadie", entity.Patch{"name": "X"})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	users.Wait()
	_, _, updates := remote.counts()
	assert.Zero(t, updates)
}

func TestMutate_PatchIncompatible_ErrInvalidInput(t *testing.T) {
	products := datasync.NewCollection[entity.Product](entity.CollectionProducts, nil, testSeed(), zerolog.Nop(), nil)
	products.Load(context.Background())

	err := products.Mutate(context.Background(), "p1", entity.Patch{"stock": "muchos"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	p1, _ := products.Find("p1")
	assert.Equal(t, 3, p1.Stock)
}

func TestMutate_IgnoraCambioDeID(t *testing.T) {
	users := newUsers(nil, nil)
	users.Load(context.Background())

	require.NoError(t, users.Mutate(context.Background(), "u1", entity.Patch{"id": "otro", "name": "X"}))

	u1, ok := users.Find("u1")
	require.True(t, ok)
	assert.Equal(t, "X", u1.Name)
	_, exists := users.Find("otro")
	assert.False(t, exists)
}

func TestMutate_ModoLocal_EsDefinitivoYSobreviveRecarga(t *testing.T) {
	remote := newFakeRemote(false)
	users := newUsers(remote, nil)
	users.Load(context.Background())

	require.NoError(t, users.Mutate(context.Background(), "u2", entity.Patch{"password": "nueva"}))
	users.Load(context.Background())

	u2, _ := users.Find("u2")
	assert.Equal(t, "nueva", u2.Password)
	_, _, updates := remote.counts()
	assert.Zero(t, updates, "sin remoto no hay fase remota")
}

// Una recarga correctiva por el fallo de una edición no debe pisar otra edición
// más reciente que sigue pendiente de confirmación.
func TestMutate_RecargaNoPisaEdicionPendiente(t *testing.T) {
	remote := remoteWithUsers()
	remote.updateErr["u1"] = errRemote
	release := make(chan struct{})
	remote.block["u2"] = release
	users := newUsers(remote, nil)
	users.Load(context.Background())

	require.NoError(t, users.Mutate(context.Background(), "u2", entity.Patch{"name": "Manager Editado"}))
	require.NoError(t, users.Mutate(context.Background(), "u1", entity.Patch{"name": "Fallará"}))

	assert.Eventually(t, func() bool {
		u1, _ := users.Find("u1")
		return u1.Name == "Admin Remoto"
	}, 2*time.Second, 10*time.Millisecond, "la edición fallida se revierte")

	u2, _ := users.Find("u2")
	assert.Equal(t, "Manager Editado", u2.Name, "la edición pendiente sobrevive a la recarga")

	close(release)
	users.Wait()
	users.Load(context.Background())

	u2, _ = users.Find("u2")
	assert.Equal(t, "Manager Editado", u2.Name, "tras confirmar, el remoto ya trae el valor")
	u1, _ := users.Find("u1")
	assert.Equal(t, "Admin Remoto", u1.Name)
}

// Si el fallo remoto llega mientras otra carga (que ya aplicó la edición) sigue
// notificando, la recarga correctiva no se une a ella: lee de nuevo el remoto.
func TestMutate_FalloDuranteCargaEnCurso_Revierte(t *testing.T) {
	remote := remoteWithUsers()
	remote.updateErr["u1"] = errRemote
	release := make(chan struct{})
	remote.block["u1"] = release
	users := newUsers(remote, nil)
	users.Load(context.Background())

	var armed atomic.Bool
	reached := make(chan struct{})
	gate := make(chan struct{})
	users.Subscribe(func([]entity.User) {
		if armed.CompareAndSwap(true, false) {
			close(reached)
			<-gate
		}
	})

	require.NoError(t, users.Mutate(context.Background(), "u1", entity.Patch{"name": "Rechazado"}))

	armed.Store(true)
	loadDone := make(chan struct{})
	go func() {
		users.Load(context.Background())
		close(loadDone)
	}()
	<-reached

	close(release)
	users.Wait()

	u1, _ := users.Find("u1")
	assert.Equal(t, "Admin Remoto", u1.Name)

	close(gate)
	<-loadDone
	u1, _ = users.Find("u1")
	assert.Equal(t, "Admin Remoto", u1.Name, "la carga vieja no reintroduce la edición")
	assert.Zero(t, users.JournalLen())
}

func TestMutate_ConfirmadasSeIncorporanALaBase(t *testing.T) {
	remote := remoteWithUsers()
	users := newUsers(remote, nil)
	users.Load(context.Background())

	for _, name := range []string{"A", "B", "C"} {
		require.NoError(t, users.Mutate(context.Background(), "u1", entity.Patch{"name": name}))
	}
	users.Wait()

	assert.Zero(t, users.JournalLen(), "el diario no crece con ediciones confirmadas")
	u1, _ := users.Find("u1")
	assert.Equal(t, "C", u1.Name)
	selects, _, _ := remote.counts()
	assert.Equal(t, 1, selects, "confirmar no recarga")
}

func TestMutate_ConfirmadaTrasPendiente_EsperaSuTurno(t *testing.T) {
	remote := remoteWithUsers()
	release := make(chan struct{})
	remote.block["u2"] = release
	users := newUsers(remote, nil)
	users.Load(context.Background())

	require.NoError(t, users.Mutate(context.Background(), "u2", entity.Patch{"name": "Primero"}))
	require.NoError(t, users.Mutate(context.Background(), "u1", entity.Patch{"name": "Segundo"}))

	assert.Eventually(t, func() bool {
		_, _, updates := remote.counts()
		return updates == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 2, users.JournalLen(), "el orden del diario se respeta")

	close(release)
	users.Wait()

	assert.Zero(t, users.JournalLen())
	u1, _ := users.Find("u1")
	u2, _ := users.Find("u2")
	assert.Equal(t, "Segundo", u1.Name)
	assert.Equal(t, "Primero", u2.Name)
}

func TestMutate_ModoLocal_NoAcumulaDiario(t *testing.T) {
	products := datasync.NewCollection[entity.Product](entity.CollectionProducts, nil, testSeed(), zerolog.Nop(), nil)
	products.Load(context.Background())

	for i := 0; i < 10; i++ {
		require.NoError(t, products.Mutate(context.Background(), "p1", entity.Patch{"stock": i}))
	}

	assert.Zero(t, products.JournalLen())
	products.Load(context.Background())
	p1, _ := products.Find("p1")
	assert.Equal(t, 9, p1.Stock)
}

func TestMutate_NotificaSuscriptores(t *testing.T) {
	users := newUsers(nil, nil)
	users.Load(context.Background())
	var last []entity.User
	users.Subscribe(func(list []entity.User) { last = list })

	require.NoError(t, users.Mutate(context.Background(), "u1", entity.Patch{"name": "Z"}))

	require.Len(t, last, 2)
	assert.Equal(t, "Z", last[0].Name)
}

// ──────────────────────────────────────────────────────────────────────────────
// Append
// ──────────────────────────────────────────────────────────────────────────────

func newTransactions(remote repository.RemoteStore) *datasync.Collection[entity.Transaction] {
	return datasync.NewCollection[entity.Transaction](entity.CollectionTransactions, remote, testSeed(), zerolog.Nop(), nil)
}

func sale(id string, amount int64) entity.Transaction {
	return entity.Transaction{
		ID:          id,
		Timestamp:   time.Now().UnixMilli(),
		TotalAmount: decimal.NewFromInt(amount),
		CreatedBy:   "u2",
	}
}

func TestAppend_ConfirmadoQuedaEnRemoto(t *testing.T) {
	remote := newFakeRemote(true)
	remote.rows[entity.CollectionTransactions] = []repository.Row{
		{"id": "t1", "timestamp": 1, "totalAmount": 10, "productTotal": 0, "serviceTotal": 10, "totalProfit": 2, "createdBy": "u1"},
	}
	txs := newTransactions(remote)
	txs.Load(context.Background())

	require.NoError(t, txs.Append(context.Background(), sale("t2", 50)))
	assert.Len(t, txs.Snapshot(), 2)

	txs.Wait()
	txs.Load(context.Background())
	got := txs.Snapshot()
	require.Len(t, got, 2, "el alta confirmada no se duplica al recargar")
	assert.Equal(t, "50", got[1].TotalAmount.String())
}

func TestAppend_FalloRemoto_Revierte(t *testing.T) {
	remote := newFakeRemote(true)
	remote.rows[entity.CollectionTransactions] = []repository.Row{
		{"id": "t1", "timestamp": 1, "totalAmount": 10, "productTotal": 0, "serviceTotal": 10, "totalProfit": 2, "createdBy": "u1"},
	}
	txs := newTransactions(remote)
	txs.Load(context.Background())
	remote.insertErr = errRemote

	require.NoError(t, txs.Append(context.Background(), sale("t2", 50)))
	txs.Wait()

	got := txs.Snapshot()
	require.Len(t, got, 1)
	assert.Equal(t, "t1", got[0].ID)
}

func TestAppend_IDVacioODuplicado(t *testing.T) {
	txs := newTransactions(nil)
	txs.Load(context.Background())
	require.NoError(t, txs.Append(context.Background(), sale("t1", 5)))

	assert.ErrorIs(t, txs.Append(context.Background(), sale("", 5)), domain.ErrInvalidInput)
	assert.ErrorIs(t, txs.Append(context.Background(), sale("t1", 5)), domain.ErrInvalidInput)
	assert.Len(t, txs.Snapshot(), 1)
}
