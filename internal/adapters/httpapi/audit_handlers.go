package httpapi

import (
	"net/http"
	"strconv"

	"github.com/example/taskapi/internal/apperr"
	"github.com/example/taskapi/internal/ctxutil"
	"github.com/example/taskapi/internal/ports/primary"
)

func (s *Server) listAuditEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := primary.AuditFilters{
		EntityType: q.Get("entity_type"),
		EntityID:   q.Get("entity_id"),
		ActorID:    q.Get("actor_id"),
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, apperr.Validation(map[string]string{"limit": "The limit must be a positive integer."}))
			return
		}
		filters.Limit = n
	}

	entries, err := s.svc.Audit.ListEntries(r.Context(), ctxutil.PrincipalFromContext(r.Context()), filters)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, mapSlice(entries, toAuditResource))
}
