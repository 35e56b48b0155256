package runlog

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
)

// IngestHandler returns an HTTP handler that receives run batches from a
// RemoteStore and writes them to the local Store.
//
// Expected request: POST with application/json body containing []*Entry.
// Returns 204 on success, 405 for wrong method, 400 for bad payload.
func IngestHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20)) // 1 MB
		if err != nil {
			http.Error(w, "read error", http.StatusBadRequest)
			return
		}

		var entries []*Entry
		if err := json.Unmarshal(body, &entries); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}

		for _, e := range entries {
			if e != nil {
				store.RecordAsync(e)
			}
		}

		slog.Debug("runlog ingest", "entries", len(entries))
		w.WriteHeader(http.StatusNoContent)
	}
}
