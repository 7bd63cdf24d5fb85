package datasync

// Source origen del contenido adoptado por una carga de colección.
type Source string

const (
	SourceRemote   Source = "remote"   // lectura remota no vacía
	SourceSeed     Source = "seed"     // almacén remoto no configurado (modo demo local)
	SourceSeeded   Source = "seeded"   // remoto vacío: se sembró (best-effort) y se usa la semilla
	SourceFallback Source = "fallback" // error de lectura o filas ilegibles
)

// Metrics recibe los eventos de sincronización. Lo implementa el colector Prometheus.
type Metrics interface {
	CollectionLoaded(collection string, source Source)
	RemoteWriteFailed(collection, op string)
	EditReverted(collection string)
}

type nopMetrics struct{}

func (nopMetrics) CollectionLoaded(string, Source)  {}
func (nopMetrics) RemoteWriteFailed(string, string) {}
func (nopMetrics) EditReverted(string)              {}
