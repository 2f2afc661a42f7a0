package http

import (
	"io"
	"net/http"

	"github.com/couchcryptid/rupture-distance-service/internal/domain"
)

// maxJobBytes bounds ad-hoc request bodies. Bulk work belongs on the Kafka
// path.
const maxJobBytes = 1 << 20

// handleDistances computes site distances synchronously for a single job.
// The request body uses the same JSON format as the source topic.
func (s *Server) handleDistances(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxJobBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "read request body: " + err.Error()})
		return
	}

	job, err := domain.ParseRawJob(domain.RawJob{Value: body})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	result, err := domain.ComputeDistances(job)
	if err != nil {
		s.logger.Warn("distance computation failed", "job_id", job.ID, "error", err)
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}
