package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"pulsarbot/commands"
)

// IntrospectionHandler exposes read-only views of the running bot over HTTP
type IntrospectionHandler struct {
	registry *commands.Registry
}

func NewIntrospectionHandler(registry *commands.Registry) *IntrospectionHandler {
	return &IntrospectionHandler{registry: registry}
}

func (h *IntrospectionHandler) SetupEndpoints(router *mux.Router) {
	log.Printf("🚀 Registering introspection endpoints")

	router.HandleFunc("/health", h.HandleHealth).Methods("GET")
	log.Printf("✅ GET /health endpoint registered")

	router.HandleFunc("/commands", h.HandleListCommands).Methods("GET")
	log.Printf("✅ GET /commands endpoint registered")

	router.HandleFunc("/commands/{name}", h.HandleGetCommand).Methods("GET")
	log.Printf("✅ GET /commands/{name} endpoint registered")
}

func (h *IntrospectionHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleListCommands returns every registered command descriptor in registration order
func (h *IntrospectionHandler) HandleListCommands(w http.ResponseWriter, r *http.Request) {
	h.writeJSONResponse(w, http.StatusOK, h.registry.Descriptors())
}

func (h *IntrospectionHandler) HandleGetCommand(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	maybeCommand := h.registry.Lookup(name)
	if !maybeCommand.IsPresent() {
		http.Error(w, "command not found", http.StatusNotFound)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, maybeCommand.MustGet().Descriptor())
}

func (h *IntrospectionHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("❌ Failed to encode JSON response: %v", err)
	}
}
