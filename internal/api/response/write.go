package response

import (
	"encoding/json"
	"net/http"
)

// JSON writes data as the JSON response body with the given status. Encoding
// failures at this point cannot be reported to the client anymore, so they
// are ignored.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}
