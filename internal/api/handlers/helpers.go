package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"bag-delivery-service/internal/schema"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

func toRecords(rows []map[string]string) []schema.Record {
	out := make([]schema.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, schema.Record(row))
	}
	return out
}
