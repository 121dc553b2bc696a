package utils

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the payload of every non-2xx answer.
type ErrorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// MessageBody is the payload of operations that only confirm.
type MessageBody struct {
	Message string `json:"message"`
}

// ResponseJSON writes payload as JSON with the given status code
func ResponseJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

// ------------- Success responses -------------

// returns 200 OK
func ResponseSuccess(w http.ResponseWriter, payload any) {
	ResponseJSON(w, http.StatusOK, payload)
}

// returns 201 Created
func ResponseCreated(w http.ResponseWriter, payload any) {
	ResponseJSON(w, http.StatusCreated, payload)
}

// returns 200 OK with {"message": ...}
func ResponseMessage(w http.ResponseWriter, message string) {
	ResponseJSON(w, http.StatusOK, MessageBody{Message: message})
}

// ------------- Error responses -------------

// ResponseError writes {"error": ..., "fields": ...} with the given status code
func ResponseError(w http.ResponseWriter, code int, message string, fields map[string]string) {
	ResponseJSON(w, code, ErrorBody{Error: message, Fields: fields})
}

// returns 400 Bad Request
func ResponseBadRequest(w http.ResponseWriter, message string, fields map[string]string) {
	ResponseError(w, http.StatusBadRequest, message, fields)
}

// returns 500 Internal Server Error
func ResponseInternalError(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusInternalServerError, message, nil)
}
