package handlers

import (
	"encoding/json"
	"net/http"
)

// GreetHandler serves the two demo routes that sit behind the CORS chain.
type GreetHandler struct{}

func NewGreetHandler() *GreetHandler { return &GreetHandler{} }

type greetRequest struct {
	Name string `json:"name"`
}

type greetResponse struct {
	Message string `json:"message"`
}

// Greet handles GET /greet.
func (h *GreetHandler) Greet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, greetResponse{Message: "Hello from the greeter API!"})
}

// GreetMe handles POST /greetme with a JSON body {"name": "..."}.
func (h *GreetHandler) GreetMe(w http.ResponseWriter, r *http.Request) {
	var req greetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	name := req.Name
	if name == "" {
		name = "stranger"
	}
	writeJSON(w, http.StatusOK, greetResponse{Message: "Hello, " + name + "!"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
