package api

import (
	"net/http"
)

func (h *Handler) handleModels(w http.ResponseWriter, r *http.Request) {
	result := ModelList{
		Models: []Model{},
	}

	for _, id := range h.Models() {
		result.Models = append(result.Models, Model{
			ID: id,
		})
	}

	writeJson(w, result)
}
