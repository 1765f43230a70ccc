// Package daemon runs the long-lived server process of `padd start-server`.
// A Daemon holds the compiled padd.Engine it was given but serves no
// formatting requests, and `padd fmt` does not contact it. It exposes a
// small HTTP control plane on the address passed to Serve (DefaultAddress is
// a loopback address), standing in for the original implementation's TCP
// kill/challenge protocol
// (src/cli/server.rs): POST /kill requires the daemon's own session
// challenge token so a stray client cannot shut down an unrelated
// instance, and GET /status reports the daemon's session id so a client
// can first fetch the challenge it must echo back.
package daemon

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/dekarrin/padd"
)

// DefaultAddress is the loopback address the daemon listens on by default.
const DefaultAddress = "127.0.0.1:4774"

// Daemon holds one resident compiled engine plus the HTTP control plane
// guarding it.
type Daemon struct {
	engine    *padd.Engine
	sessionID string
	challenge string

	db     *sql.DB
	server *http.Server
	killed chan struct{}
}

// New opens (creating if absent) the session store at dbPath, starts a
// fresh session with a random challenge token, and builds the HTTP
// handler. It does not yet listen; call Serve.
func New(engine *padd.Engine, dbPath string) (*Daemon, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	sessionID := uuid.NewString()
	challenge := uuid.NewString()

	if _, err := db.Exec(
		`INSERT INTO sessions (id, challenge) VALUES (?, ?)`,
		sessionID, challenge,
	); err != nil {
		db.Close()
		return nil, fmt.Errorf("persist session: %w", err)
	}

	d := &Daemon{
		engine:    engine,
		sessionID: sessionID,
		challenge: challenge,
		db:        db,
		killed:    make(chan struct{}),
	}

	r := chi.NewRouter()
	r.Get("/status", d.handleStatus)
	r.Post("/kill", d.handleKill)

	d.server = &http.Server{Handler: r}

	return d, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT NOT NULL PRIMARY KEY,
		challenge TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("create session schema: %w", err)
	}
	return nil
}

type statusResponse struct {
	SessionID string `json:"session_id"`
	Challenge string `json:"challenge"`
}

func (d *Daemon) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(statusResponse{
		SessionID: d.sessionID,
		Challenge: d.challenge,
	})
}

type killRequest struct {
	Challenge string `json:"challenge"`
}

func (d *Daemon) handleKill(w http.ResponseWriter, r *http.Request) {
	var req killRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed kill request", http.StatusBadRequest)
		return
	}
	if req.Challenge != d.challenge {
		http.Error(w, "challenge mismatch", http.StatusForbidden)
		return
	}

	w.WriteHeader(http.StatusOK)
	close(d.killed)
}

// Serve listens on addr (loopback only — binding to anything else is the
// caller's mistake to make, not this package's to prevent) until either the
// kill challenge is satisfied or ctx is canceled.
func (d *Daemon) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- d.server.Serve(ln)
	}()

	select {
	case <-d.killed:
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil && err != http.ErrServerClosed {
			d.db.Close()
			return err
		}
	}

	shutdownErr := d.server.Shutdown(context.Background())
	d.db.Close()
	return shutdownErr
}

// Engine returns the daemon's resident compiled engine.
func (d *Daemon) Engine() *padd.Engine {
	return d.engine
}

// SessionID returns this daemon instance's session id.
func (d *Daemon) SessionID() string {
	return d.sessionID
}

// Status queries a running daemon's /status endpoint.
func Status(addr string) (sessionID, challenge string, err error) {
	resp, err := http.Get(fmt.Sprintf("http://%s/status", addr))
	if err != nil {
		return "", "", fmt.Errorf("query status: %w", err)
	}
	defer resp.Body.Close()

	var status statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return "", "", fmt.Errorf("decode status: %w", err)
	}
	return status.SessionID, status.Challenge, nil
}

// Kill fetches addr's current challenge and submits it back to /kill,
// shutting the daemon down.
func Kill(addr string) error {
	_, challenge, err := Status(addr)
	if err != nil {
		return err
	}

	body, err := json.Marshal(killRequest{Challenge: challenge})
	if err != nil {
		return fmt.Errorf("encode kill request: %w", err)
	}

	resp, err := http.Post(fmt.Sprintf("http://%s/kill", addr), "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("send kill: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("kill rejected: status %d", resp.StatusCode)
	}
	return nil
}
