package api

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/adrianliechti/payroll/pkg/export"
)

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	format := export.FormatCSV

	if val := valueFormat(r); val != "" {
		f, err := export.ParseFormat(val)

		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		format = f
	}

	result, _, ok := h.process(w, r)

	if !ok {
		return
	}

	output, err := export.Export(result.Dataset, format)

	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", output.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": output.Name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(output.Content)))

	w.Header().Set("X-Batch-Id", result.ID)
	w.Header().Set("X-Document-Errors", strconv.Itoa(len(result.Errors)))

	w.WriteHeader(http.StatusOK)
	w.Write(output.Content)
}
