package cluster

import (
	"encoding/json"
	"net/http"
	"sort"
	"sync"
)

// CheckFunc é um tipo para uma função que realiza uma verificação de saúde.
// Retorna um erro se a verificação falhar.
type CheckFunc func() error

// InfoFunc contribui com um valor informativo para a resposta, sem afetar o status.
type InfoFunc func() any

// HealthAggregator permite registrar múltiplas verificações de saúde e as expõe
// através de um único endpoint HTTP.
type HealthAggregator struct {
	mu     sync.RWMutex
	checks map[string]CheckFunc
	info   map[string]InfoFunc
}

// NewHealthAggregator cria um novo agregador de saúde.
func NewHealthAggregator() *HealthAggregator {
	return &HealthAggregator{
		checks: make(map[string]CheckFunc),
		info:   make(map[string]InfoFunc),
	}
}

// AddCheck registra uma nova função de verificação.
func (h *HealthAggregator) AddCheck(name string, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

// AddInfo registra um valor exposto junto com o status (ex: número de sessões).
func (h *HealthAggregator) AddInfo(name string, info InfoFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.info[name] = info
}

type healthResponse struct {
	Status string            `json:"status"`
	Failed map[string]string `json:"failed,omitempty"`
	Checks []string          `json:"checks,omitempty"`
	Info   map[string]any    `json:"info,omitempty"`
}

// Handler retorna um http.HandlerFunc que executa todas as verificações registradas.
// Se todas passarem, retorna 200 OK. Se alguma falhar, retorna 503 Service Unavailable.
func (h *HealthAggregator) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.mu.RLock()
		defer h.mu.RUnlock()

		resp := healthResponse{Status: "healthy"}
		failed := make(map[string]string)
		for name, check := range h.checks {
			resp.Checks = append(resp.Checks, name)
			if err := check(); err != nil {
				failed[name] = err.Error()
			}
		}
		sort.Strings(resp.Checks)
		if len(h.info) > 0 {
			resp.Info = make(map[string]any, len(h.info))
			for name, info := range h.info {
				resp.Info[name] = info()
			}
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if len(failed) > 0 {
			resp.Status = "unhealthy"
			resp.Failed = failed
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}
		json.NewEncoder(w).Encode(resp)
	}
}
