package app

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/voyage-web/voyage/framework/dispatch"
	"github.com/voyage-web/voyage/framework/pipeline"
	"github.com/voyage-web/voyage/framework/routing"
)

// Serve mounts the pipeline behind a chi mux and starts an HTTP server, so
// the runtime can be driven over HTTP during development. Every GET becomes
// a ProcessRequest; the dispatch result decides the response shape.
func (a *Application) Serve(addr string) error {
	if !a.Providers.Booted() {
		a.Boot()
	}
	cfg := a.Config()

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Handle("/*", a.Handler())

	fmt.Printf("🚀  %s dev server on http://localhost%s  [%s]\n",
		cfg.App.Name, addr, cfg.App.Env)
	return http.ListenAndServe(addr, r)
}

// Handler adapts the pipeline to http.Handler (exposed for tests).
func (a *Application) Handler() http.Handler {
	pipe := a.Pipeline()
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ctx, err := pipe.ProcessRequest(req.URL.RequestURI(), req.Method)
		writeResult(w, ctx, err)
	})
}

// writeResult maps a request outcome onto an HTTP response.
func writeResult(w http.ResponseWriter, ctx *pipeline.Context, err error) {
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"message": err.Error()})
		return
	}

	switch res := ctx.Result.(type) {
	case routing.NotFound:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(res.Markup))
	case dispatch.Redirect:
		target := res.Path
		if target == "" {
			target = "/" + res.Controller + "/" + res.Action
		}
		w.Header().Set("Location", target)
		w.WriteHeader(http.StatusFound)
	case dispatch.JSON:
		writeJSON(w, http.StatusOK, map[string]any{"data": res.Data})
	case dispatch.Data:
		writeJSON(w, http.StatusOK, res.Value)
	case string:
		// rendered markup attached by a middleware or controller
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(res))
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
