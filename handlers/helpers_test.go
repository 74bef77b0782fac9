// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/jury-live/cliparse"
	"github.com/danielhkuo/jury-live/gate"
	"github.com/danielhkuo/jury-live/hub"
	"github.com/danielhkuo/jury-live/models"
	"github.com/danielhkuo/jury-live/store"
	"github.com/danielhkuo/jury-live/testutil"
)

type testEnv struct {
	db   *sql.DB
	cfg  cliparse.Config
	hub  *hub.Hub
	gate *gate.Gate
}

// newTestEnv seeds participants P1, P2 and jury member J1.
func newTestEnv(t *testing.T) testEnv {
	t.Helper()

	db := testutil.SetupTestDB(t)
	testutil.CreateTestParticipant(t, db, 1, "P1")
	testutil.CreateTestParticipant(t, db, 2, "P2")
	testutil.CreateTestJury(t, db, 1, "J1")

	return newTestEnvWithStore(t, db, store.New(db))
}

func newTestEnvWithStore(t *testing.T, db *sql.DB, st gate.Store) testEnv {
	t.Helper()

	cfg := testutil.GetTestConfig()
	h := hub.New(cfg.SubscriberBuffer, nil, nil)
	t.Cleanup(h.Close)

	return testEnv{
		db:   db,
		cfg:  cfg,
		hub:  h,
		gate: gate.New(st, h, nil, nil, nil),
	}
}

// adminMux registers the admin routes the way the router does, so path
// values resolve.
func (e testEnv) adminMux() *http.ServeMux {
	admin := NewAdminHandler(e.gate, e.cfg)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /admin/participants", admin.RequireAdmin(admin.ListParticipants))
	mux.HandleFunc("POST /admin/participants", admin.RequireAdmin(admin.AddParticipant))
	mux.HandleFunc("DELETE /admin/participants/{id}", admin.RequireAdmin(admin.DeleteParticipant))
	mux.HandleFunc("POST /admin/participants/{id}/reset", admin.RequireAdmin(admin.ResetParticipant))
	mux.HandleFunc("GET /admin/jury", admin.RequireAdmin(admin.ListJury))
	mux.HandleFunc("POST /admin/jury", admin.RequireAdmin(admin.AddJury))
	mux.HandleFunc("DELETE /admin/jury/{id}", admin.RequireAdmin(admin.DeleteJury))
	return mux
}

func (e testEnv) snapshot(t *testing.T) models.Snapshot {
	t.Helper()
	snap, err := e.gate.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Failed to load snapshot: %v", err)
	}
	return snap
}

func scoreBody(participantID, juryID int64, contest string, score float64) models.UpdateScoreRequest {
	return models.UpdateScoreRequest{
		ParticipantID: participantID,
		JuryID:        juryID,
		Contest:       contest,
		Score:         &score,
	}
}

func serve(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

// failingStore fails every score write with a persistence error.
type failingStore struct {
	*store.Store
	err error
}

func (f *failingStore) UpsertContest(context.Context, int64, int64, models.ContestField, float64) error {
	return f.err
}

func (f *failingStore) Finalize(context.Context, int64, int64) error {
	return f.err
}
