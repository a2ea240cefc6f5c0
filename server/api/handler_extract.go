package api

import (
	"net/http"

	"github.com/adrianliechti/payroll/pkg/batch"
	"github.com/adrianliechti/payroll/pkg/record"
)

func (h *Handler) handleExtract(w http.ResponseWriter, r *http.Request) {
	result, model, ok := h.process(w, r)

	if !ok {
		return
	}

	writeJson(w, convertResult(result, model))
}

// process runs the uploaded documents through the selected analyzer and
// writes an error response when it returns false.
func (h *Handler) process(w http.ResponseWriter, r *http.Request) (*batch.Result, string, bool) {
	files, err := h.readFiles(r)

	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil, "", false
	}

	model, err := h.Model(valueModel(r))

	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil, "", false
	}

	p, err := h.Processor(valueAnalyzer(r), model)

	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil, "", false
	}

	result, err := p.Process(r.Context(), files)

	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return nil, "", false
	}

	return result, model, true
}

func convertResult(result *batch.Result, model string) Extraction {
	e := Extraction{
		ID:    result.ID,
		Model: model,

		Columns: []string{},
		Rows:    []Row{},

		Errors: []DocumentError{},
	}

	e.Columns = append(e.Columns, result.Dataset.Columns()...)

	for i, row := range result.Dataset.Rows() {
		values := make(map[string]record.Value, len(e.Columns))

		for _, c := range e.Columns {
			values[c] = result.Dataset.Cell(i, c)
		}

		e.Rows = append(e.Rows, Row{
			Name:   row.Name,
			Values: values,
		})
	}

	for _, err := range result.Errors {
		e.Errors = append(e.Errors, DocumentError{
			Index: err.Index,
			Name:  err.Name,
			Error: err.Err.Error(),
		})
	}

	return e
}
