package testpage

import (
	"net/http"
)

// Handler serves the pool page, stepping the simulation before each response
// when step is true.
func Handler(p *Pool, step bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		if step {
			p.Step()
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(p.Page())
	})
}
