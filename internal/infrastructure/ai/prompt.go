package ai

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain/entity"
)

// maxPromptTransactions ventas más recientes que se envían al modelo.
const maxPromptTransactions = 20

// advisorSystemPrompt define el rol del modelo y el formato de salida.
const advisorSystemPrompt = `You are a business advisor for a small automotive repair shop that sells spare parts and labour.
Given recent sales and the current inventory, reply with 3 to 5 short, actionable insights.
Format the answer as simple HTML only: one <ul> with <li> items, <strong> allowed for emphasis.
No markdown, no code fences, no scripts, no text outside the list.`

// businessPrompt resume ventas e inventario en texto plano para el modelo.
func businessPrompt(txs []entity.Transaction, products []entity.Product) string {
	recent := append([]entity.Transaction(nil), txs...)
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].Timestamp > recent[j].Timestamp })
	if len(recent) > maxPromptTransactions {
		recent = recent[:maxPromptTransactions]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Recent sales (%d of %d):\n", len(recent), len(txs))
	for _, tx := range recent {
		fmt.Fprintf(&b, "- %s total=%s parts=%s labour=%s profit=%s\n",
			time.UnixMilli(tx.Timestamp).UTC().Format("2006-01-02"),
			tx.TotalAmount.StringFixed(2),
			tx.NetProducts().StringFixed(2),
			tx.NetServices().StringFixed(2),
			tx.TotalProfit.StringFixed(2),
		)
	}

	fmt.Fprintf(&b, "\nInventory (%d products):\n", len(products))
	for _, p := range products {
		flag := ""
		if p.IsLowStock() {
			flag = " LOW STOCK"
		}
		fmt.Fprintf(&b, "- %s (%s) stock=%d%s\n", p.Name, p.SKU, p.Stock, flag)
	}
	return b.String()
}

// stripCodeFence quita un bloque ```html … ``` si el modelo lo agrega igual.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	after := text[3:]
	if nl := strings.Index(after, "\n"); nl != -1 {
		after = after[nl+1:]
	}
	if end := strings.LastIndex(after, "```"); end != -1 {
		after = after[:end]
	}
	return strings.TrimSpace(after)
}
