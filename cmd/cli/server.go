package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deepcal/deepcal/pkg/config"
	"github.com/deepcal/deepcal/pkg/data"
	"github.com/deepcal/deepcal/pkg/engine"
	"github.com/deepcal/deepcal/pkg/resolve"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

const (
	serverShutdownWaitSeconds = 5
	serverTimeoutSeconds      = 300
	serverMaxHeaderBytes      = 20
	serverPortDefault         = 8080
)

var (
	portFlag = &cli.IntFlag{
		Name:  "port",
		Usage: "Port on which the server will listen",
		Value: serverPortDefault,
	}

	serverCmd = &cli.Command{
		Name:    "server",
		Aliases: []string{"s"},
		Usage:   "Start local HTTP ranking API",
		Action:  cmdStartServer,
		Flags: []cli.Flag{
			portFlag,
		},
	}
)

func cmdStartServer(c *cli.Context) error {
	cfg := getConfig(c)
	port := c.Int(portFlag.Name)
	address := fmt.Sprintf("127.0.0.1:%d", port)

	mux := makeRouter(cfg.DB, cfg.Conf)
	s := &http.Server{
		Addr:           address,
		Handler:        mux,
		ReadTimeout:    serverTimeoutSeconds * time.Second,
		WriteTimeout:   serverTimeoutSeconds * time.Second,
		MaxHeaderBytes: 1 << serverMaxHeaderBytes,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("error starting server: %v", err)
		}
	}()

	log.Infof("server started on %s", address)

	<-done

	ctx, cancel := context.WithTimeout(context.Background(), serverShutdownWaitSeconds*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil && err != http.ErrServerClosed {
		log.Errorf("error shutting down server: %v", err)
	}
	return nil
}

func makeRouter(db *sql.DB, conf *config.Config) *http.ServeMux {
	store := data.NewStore(db)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", healthHandler)
	mux.HandleFunc("POST /rank", rankAPIHandler(store, conf))
	mux.HandleFunc("GET /resolve", resolveAPIHandler(store))
	mux.HandleFunc("POST /weights", weightsAPIHandler)
	mux.HandleFunc("POST /mirror", mirrorAPIHandler(store))
	return mux
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": version})
}

func rankAPIHandler(store *data.Store, conf *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req rankRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		res, err := runRank(store, conf, &req)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func resolveAPIHandler(store *data.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		resolver := &resolve.Resolver{Mirror: store}

		forwarders, tier, err := resolver.Resolve(
			q.Get("origin"), q.Get("destination"), q.Get("cargo"), nil)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		writeJSON(w, http.StatusOK, &resolveResponse{
			Origin:      q.Get("origin"),
			Destination: q.Get("destination"),
			CargoType:   q.Get("cargo"),
			DataSource:  tier,
			Forwarders:  forwarders,
		})
	}
}

func weightsAPIHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Pairwise [][]float64 `json:"pairwise"`
		Urgency  string      `json:"urgency,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	weights, err := engine.DeriveWeights(req.Pairwise)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	res := &weightsResponse{Weights: weights}
	criteria := engine.DefaultCriteria()
	if len(weights) == len(criteria) {
		if req.Urgency != "" {
			res.Urgency = engine.ParseUrgency(req.Urgency)
			res.Weights = engine.AdjustForUrgency(weights, criteria, res.Urgency)
		}
		res.Named = make(map[string]float64, len(criteria))
		for i, crit := range criteria {
			res.Named[crit.Name] = res.Weights[i]
		}
	}
	writeJSON(w, http.StatusOK, res)
}

func mirrorAPIHandler(store *data.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req rankRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if req.Snapshot == nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("missing snapshot"))
			return
		}

		res, err := store.MergeSnapshot(req.Snapshot)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
