package entity

// Nombres de colecciones tal como existen en el almacén remoto.
const (
	CollectionUsers        = "users"
	CollectionTransactions = "transactions"
	CollectionProducts     = "products"
	CollectionCashFlows    = "cash_flows"
)

// Entity cualquier registro identificable por id dentro de una colección.
type Entity interface {
	EntityID() string
}

// Patch actualización parcial: nombre de campo JSON -> nuevo valor.
type Patch map[string]any
