package interfaces

import (
	"log"
	"net/http"

	"github.com/rpoliveira/controlefin/internal/ledger/application"
)

type ReconcilerInterface interface {
	ReconcileAll() ([]application.GoalDrift, error)
	FindOrphanExpenses() (application.OrphanReport, error)
}

// AuditHandler exposes the maintenance pass to operators. It is mounted under
// the admin-only route tree, never on the end-user API.
type AuditHandler struct {
	reconciler   ReconcilerInterface
	respondJSON  RespondJSONFunc
	respondError RespondErrorFunc
}

func NewAuditHandler(reconciler ReconcilerInterface, respondJSON RespondJSONFunc, respondError RespondErrorFunc) *AuditHandler {
	if reconciler == nil {
		log.Fatal("Reconciler must not be nil")
		return nil
	}
	return &AuditHandler{reconciler: reconciler, respondJSON: respondJSON, respondError: respondError}
}

func (h *AuditHandler) ReconcileAll(w http.ResponseWriter, r *http.Request) {
	drifts, err := h.reconciler.ReconcileAll()
	if err != nil {
		log.Printf("Error during reconciliation: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Reconciliation failed")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Reconciliation completed.",
		"data": map[string]interface{}{
			"repaired": len(drifts),
			"drifts":   drifts,
		},
	})
}

func (h *AuditHandler) FindOrphanExpenses(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconciler.FindOrphanExpenses()
	if err != nil {
		log.Printf("Error during orphan detection: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Orphan detection failed")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Orphan detection completed.",
		"data":    report,
	})
}
