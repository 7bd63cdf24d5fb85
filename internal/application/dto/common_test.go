package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ashraful7679/Engine-2-Mufller/internal/application/dto"
)

func TestPageRequest_Window(t *testing.T) {
	cases := []struct {
		name     string
		page     dto.PageRequest
		n        int
		from, to int
	}{
		{"sin límite", dto.PageRequest{}, 5, 0, 5},
		{"primera página", dto.PageRequest{Limit: 2}, 5, 0, 2},
		{"página parcial", dto.PageRequest{Limit: 2, Offset: 4}, 5, 4, 5},
		{"offset fuera de rango", dto.PageRequest{Limit: 2, Offset: 9}, 5, 5, 5},
		{"colección vacía", dto.PageRequest{Limit: 2}, 0, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			from, to := tc.page.Window(tc.n)
			assert.Equal(t, tc.from, from)
			assert.Equal(t, tc.to, to)
		})
	}
}
