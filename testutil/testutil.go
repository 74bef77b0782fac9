// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/jury-live/cliparse"
	"github.com/danielhkuo/jury-live/db"
	"github.com/danielhkuo/jury-live/models"
)

// TestDBURL is an in-memory SQLite database; each SetupTestDB call gets its own.
const TestDBURL = ":memory:"

// TestAdminKey is the admin key in GetTestConfig.
const TestAdminKey = "test-admin-key"

// SetupTestDB creates a fresh test database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open("sqlite", TestDBURL)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:             3318,
		DatabaseURL:      TestDBURL,
		DatabaseType:     "sqlite",
		AdminKey:         TestAdminKey,
		SubscriberBuffer: 8,
		WriteTimeout:     time.Second,
		RateLimit:        1000,
		RateBurst:        1000,
	}
}

// CreateTestParticipant inserts a participant with the given id
func CreateTestParticipant(t *testing.T, conn *sql.DB, id int64, name string) models.Participant {
	t.Helper()

	p := models.Participant{ID: id, Code: fmt.Sprintf("K%d", id), Name: name}
	_, err := conn.Exec(`
		INSERT INTO participant (id, code, name) VALUES ($1, $2, $3)
	`, p.ID, p.Code, p.Name)
	if err != nil {
		t.Fatalf("Failed to create test participant: %v", err)
	}

	return p
}

// CreateTestJury inserts a jury member with the given id
func CreateTestJury(t *testing.T, conn *sql.DB, id int64, name string) models.JuryMember {
	t.Helper()

	j := models.JuryMember{ID: id, Name: name, Code: fmt.Sprintf("J%03d", id)}
	_, err := conn.Exec(`
		INSERT INTO jury (id, name, code) VALUES ($1, $2, $3)
	`, j.ID, j.Name, j.Code)
	if err != nil {
		t.Fatalf("Failed to create test jury: %v", err)
	}

	return j
}

// InsertTestScore writes a score row directly, bypassing validation
func InsertTestScore(t *testing.T, conn *sql.DB, rec models.ScoreRecord) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO score (participant_id, jury_id, contest1, contest2, contest3, finalized)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, rec.ParticipantID, rec.JuryID, rec.Contest1, rec.Contest2, rec.Contest3, rec.Finalized)
	if err != nil {
		t.Fatalf("Failed to create test score: %v", err)
	}
}

// CountScores returns the number of score rows
func CountScores(t *testing.T, conn *sql.DB) int {
	t.Helper()

	var n int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM score`).Scan(&n); err != nil {
		t.Fatalf("Failed to count scores: %v", err)
	}
	return n
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
