package api

import (
	"encoding/json"
	"log"
	"net/http"
)

// respondResults writes the standard {"results": ...} envelope the
// dashboard expects. Encoding failures are the only thing that can go
// wrong this deep: they surface as a bare 500 without detail.
func respondResults(w http.ResponseWriter, results interface{}) {
	respondJSON(w, map[string]interface{}{
		"results": results,
	})
}

// respondJSON writes an arbitrary JSON body with status 200.
func respondJSON(w http.ResponseWriter, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("API Error: encoding response: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
