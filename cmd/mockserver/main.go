// mockserver serves assembly definitions and a simulated execution run over
// HTTP so the viewer can be exercised against a remote process: REST for
// state snapshots, a websocket for push delivery.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/milk9111/assemblyviewer/assembly"
	"github.com/milk9111/assemblyviewer/exec"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type server struct {
	seq      *exec.MockSequencer
	interval time.Duration
}

func main() {
	addr := flag.String("addr", ":8091", "listen address")
	name := flag.String("assembly", "gearbox", "assembly to run")
	interval := flag.Duration("push", 200*time.Millisecond, "websocket push interval")
	flag.Parse()

	asm, err := assembly.LoadAssembly(*name)
	if err != nil {
		log.Fatalf("load assembly %s: %v", *name, err)
	}

	s := &server{
		seq:      exec.NewMockSequencer(asm),
		interval: *interval,
	}

	r := chi.NewRouter()
	r.Get("/api/assemblies", listAssemblies)
	r.Get("/api/assemblies/{id}", getAssembly)
	r.Route("/api/execution", func(r chi.Router) {
		r.Get("/state", s.getState)
		r.Post("/start", s.control(s.seq.Start))
		r.Post("/pause", s.control(s.seq.Pause))
		r.Post("/stop", s.control(s.seq.Stop))
		r.Get("/ws", s.serveWS)
	})

	log.Printf("mockserver: %s on %s", asm.ID, *addr)
	if err := http.ListenAndServe(*addr, r); err != nil {
		log.Fatal(err)
	}
}

type assemblySummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func listAssemblies(w http.ResponseWriter, r *http.Request) {
	var out []assemblySummary
	for _, name := range assembly.List() {
		spec, err := assembly.LoadSpec(name + ".yaml")
		if err != nil {
			log.Printf("skipping %s: %v", name, err)
			continue
		}
		id := spec.ID
		if id == "" {
			id = name
		}
		out = append(out, assemblySummary{ID: id, Name: spec.Name})
	}
	writeJSON(w, out)
}

func getAssembly(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	spec, err := assembly.LoadSpec(id + ".yaml")
	if err != nil {
		http.Error(w, "assembly not found", http.StatusNotFound)
		return
	}
	writeJSON(w, spec)
}

func (s *server) getState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.seq.Snapshot())
}

func (s *server) control(fn func()) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fn()
		writeJSON(w, map[string]string{"status": "ok"})
	}
}

func (s *server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade: %v", err)
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for range ticker.C {
		if err := conn.WriteJSON(s.seq.Snapshot()); err != nil {
			return
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}
