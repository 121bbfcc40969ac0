package handler

import (
	"encoding/json"
	"net/http"

	"github.com/kull-platform/api/internal/model"
)

// DataResponse is the success envelope for single-object responses. Clients
// branch on the success flag; errors carry the matching shape with
// success=false (see model.APIError).
type DataResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ListResponse is the success envelope for paginated collections. Total is
// the full match count, Count the number of items in this page.
type ListResponse struct {
	Success bool        `json:"success"`
	Total   int         `json:"total"`
	Page    int         `json:"page"`
	Limit   int         `json:"limit"`
	Count   int         `json:"count"`
	Data    interface{} `json:"data"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// WriteData writes a successful data response
func WriteData(w http.ResponseWriter, status int, data interface{}) {
	WriteJSON(w, status, DataResponse{Success: true, Data: data})
}

// WriteMessage writes a successful response with a message and optional data
func WriteMessage(w http.ResponseWriter, status int, message string, data interface{}) {
	WriteJSON(w, status, DataResponse{Success: true, Message: message, Data: data})
}

// WriteList writes a paginated collection response
func WriteList(w http.ResponseWriter, docs []map[string]interface{}, total, page, limit int) {
	if docs == nil {
		docs = []map[string]interface{}{}
	}
	WriteJSON(w, http.StatusOK, ListResponse{
		Success: true,
		Total:   total,
		Page:    page,
		Limit:   limit,
		Count:   len(docs),
		Data:    docs,
	})
}

// WriteError writes an error envelope response
func WriteError(w http.ResponseWriter, err *model.APIError) {
	err.WriteJSON(w)
}

// DecodeJSON decodes a JSON request body into the given struct
func DecodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
