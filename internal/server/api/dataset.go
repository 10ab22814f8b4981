package api

import (
	"net/http"

	"github.com/ayusman/handsign/internal/store"
	"github.com/go-chi/chi/v5"
)

// DatasetHandler reports and prunes the stored training samples.
// Expected paths: /api/dataset and /api/dataset/{label}
type DatasetHandler struct {
	store *store.Store
}

// NewDatasetHandler creates a new DatasetHandler with the given store.
func NewDatasetHandler(s *store.Store) *DatasetHandler {
	return &DatasetHandler{store: s}
}

type datasetResponse struct {
	Labels []store.LabelCount `json:"labels"`
	Total  int                `json:"total"`
}

type deleteLabelResponse struct {
	Label   string `json:"label"`
	Deleted int64  `json:"deleted"`
}

// ServeHTTP implements the http.Handler interface.
func (h *DatasetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	label := chi.URLParam(r, "label")

	switch {
	case label == "" && r.Method == http.MethodGet:
		h.summary(w, r)
	case label != "" && r.Method == http.MethodDelete:
		h.deleteLabel(w, r, label)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// summary handles GET /api/dataset and returns sample counts per label.
func (h *DatasetHandler) summary(w http.ResponseWriter, r *http.Request) {
	labels, err := h.store.Samples().Labels()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read dataset")
		return
	}

	response := datasetResponse{Labels: labels}
	for _, l := range labels {
		response.Total += l.Samples
	}

	writeJSON(w, http.StatusOK, response)
}

// deleteLabel handles DELETE /api/dataset/{label}.
func (h *DatasetHandler) deleteLabel(w http.ResponseWriter, r *http.Request, label string) {
	n, err := h.store.Samples().DeleteByLabel(label)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete samples")
		return
	}
	if n == 0 {
		writeError(w, http.StatusNotFound, "Label not found")
		return
	}

	writeJSON(w, http.StatusOK, deleteLabelResponse{Label: label, Deleted: n})
}
