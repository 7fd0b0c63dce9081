// Package monitoring turns a running session into a small web server so
// the simulator state can be inspected from outside while commands run.
package monitoring

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/browser"

	"github.com/sarchlab/memsim/session"
)

// Monitor serves JSON snapshots of one session's pool and cache state.
type Monitor struct {
	session    *session.Session
	portNumber int
}

// NewMonitor creates a monitor for the session.
func NewMonitor(s *session.Session) *Monitor {
	return &Monitor{session: s}
}

// WithPortNumber sets the port to listen on. Ports below 1000 are refused
// and replaced with a random port.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is not allowed for the monitoring server. "+
				"Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// StartServer begins serving in the background and returns the URL it
// listens on.
func (m *Monitor) StartServer() (string, error) {
	r := mux.NewRouter()
	r.HandleFunc("/api/pool", m.pool)
	r.HandleFunc("/api/pool/layout", m.layout)
	r.HandleFunc("/api/cache", m.cache)

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	if err != nil {
		return "", fmt.Errorf("failed to start monitoring server: %w", err)
	}

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	go func() {
		if err := http.Serve(listener, r); err != nil {
			fmt.Fprintf(os.Stderr, "monitoring server stopped: %v\n", err)
		}
	}()

	return url, nil
}

// OpenBrowser points the default browser at the monitor's pool endpoint.
func (m *Monitor) OpenBrowser(url string) {
	if err := browser.OpenURL(url + "/api/pool"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to open browser: %v\n", err)
	}
}

func (m *Monitor) pool(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, m.session.SnapshotPool())
}

func (m *Monitor) layout(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, m.session.SnapshotLayout())
}

func (m *Monitor) cache(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, m.session.SnapshotCache())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
