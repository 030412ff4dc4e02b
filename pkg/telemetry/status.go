package telemetry

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang/glog"
	"github.com/gorilla/mux"

	fx "github.com/robotalks/uartmsg/pkg/framework"
)

// To be set via go build -ldflags "-X github.com/robotalks/uartmsg/pkg/telemetry.Version=..."
var (
	Version   = "unspecified"
	BuildDate = "unknown"
)

// StatusServer exposes pipeline state over HTTP.
type StatusServer struct {
	Addr     string
	Pipeline *Pipeline
	DeviceID string
}

// Name implements Named.
func (s *StatusServer) Name() string {
	return "status"
}

// Handler creates the routes.
func (s *StatusServer) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/version", s.getVersion).Methods(http.MethodGet)
	r.HandleFunc("/stats", s.getStats).Methods(http.MethodGet)
	r.HandleFunc("/sample", s.getSample).Methods(http.MethodGet)
	return r
}

// Run implements Runnable.
func (s *StatusServer) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.Addr, Handler: s.Handler()}
	glog.Infof("status server listening on %s", s.Addr)
	err := fx.RunWithContextCancel(ctx, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}, srv.ListenAndServe)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *StatusServer) getVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Version   string `json:"version"`
		BuildDate string `json:"build_date"`
		DeviceID  string `json:"device_id,omitempty"`
	}{Version: Version, BuildDate: BuildDate, DeviceID: s.DeviceID})
}

func (s *StatusServer) getStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Pipeline.Stats())
}

func (s *StatusServer) getSample(w http.ResponseWriter, r *http.Request) {
	sample := s.Pipeline.LastSample()
	if sample == nil {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("no sample yet"))
		return
	}
	writeJSON(w, http.StatusOK, sample)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(status)
	e := json.NewEncoder(w)
	e.SetIndent("", "    ")
	if err := e.Encode(v); err != nil {
		glog.Warningf("encode response: %v", err)
	}
}
