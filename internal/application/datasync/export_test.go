package datasync

// JournalLen expone el largo del diario a los tests del paquete externo.
func (c *Collection[T]) JournalLen() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.journal)
}
