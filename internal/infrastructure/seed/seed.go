// Package seed expone el conjunto de datos integrado del taller.
package seed

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain/repository"
)

//go:embed seed.yaml
var seedYAML []byte

// Data filas semilla por colección. Es inmutable: Rows devuelve copias.
type Data struct {
	collections map[string][]repository.Row
}

// Load decodifica la semilla integrada.
func Load() (*Data, error) {
	return Parse(seedYAML)
}

// MustLoad como Load pero entra en pánico si la semilla integrada está corrupta.
func MustLoad() *Data {
	d, err := Load()
	if err != nil {
		panic(err)
	}
	return d
}

// Parse decodifica un documento YAML con una lista de filas por colección.
func Parse(doc []byte) (*Data, error) {
	var raw map[string][]map[string]any
	if err := yaml.Unmarshal(doc, &raw); err != nil {
		return nil, fmt.Errorf("seed: decodificar YAML: %w", err)
	}
	d := &Data{collections: make(map[string][]repository.Row, len(raw))}
	for name, rows := range raw {
		list := make([]repository.Row, 0, len(rows))
		for _, r := range rows {
			list = append(list, repository.Row(r))
		}
		d.collections[name] = list
	}
	return d, nil
}

// Rows devuelve una copia de las filas semilla de la colección (vacío si no hay).
func (d *Data) Rows(collection string) []repository.Row {
	rows := d.collections[collection]
	out := make([]repository.Row, 0, len(rows))
	for _, r := range rows {
		cp := make(repository.Row, len(r))
		for k, v := range r {
			cp[k] = v
		}
		out = append(out, cp)
	}
	return out
}

// Collections nombres de colecciones presentes en la semilla.
func (d *Data) Collections() []string {
	names := make([]string, 0, len(d.collections))
	for name := range d.collections {
		names = append(names, name)
	}
	return names
}
