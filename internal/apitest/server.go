// Package apitest runs an in-process stand-in for the proforma GraphQL
// backend. It understands exactly the operations the web front sends,
// keeps its data in an in-memory SQLite database through gorm, counts
// calls per root field and can be told to fail one.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Root fields, in the order they are matched against the query text.
// Mutations come first so "proforma(" never shadows them.
const (
	FieldCreateClient         = "createClient"
	FieldCreateProforma       = "createProforma"
	FieldUpdateProformaStatus = "updateProformaStatus"
	FieldAllClients           = "allClients"
	FieldAllProformas         = "allProformas"
	FieldProforma             = "proforma"
)

var fieldOrder = []string{
	FieldCreateClient,
	FieldCreateProforma,
	FieldUpdateProformaStatus,
	FieldAllClients,
	FieldAllProformas,
	FieldProforma,
}

var dbSeq atomic.Int64

// Server is a fake GraphQL endpoint.
type Server struct {
	*httptest.Server

	store *store

	mu       sync.Mutex
	calls    map[string]int
	failures map[string]string

	// Now stamps created proformas. Tests may override it before use.
	Now func() time.Time
}

// New starts a Server and registers its shutdown with t.
func New(t testing.TB) *Server {
	t.Helper()

	dsn := fmt.Sprintf("file:apitest_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("apitest: open db: %v", err)
	}
	s := &Server{
		store:    &store{db: db},
		calls:    make(map[string]int),
		failures: make(map[string]string),
		Now:      time.Now,
	}
	if err := s.store.migrate(); err != nil {
		t.Fatalf("apitest: migrate: %v", err)
	}

	s.Server = httptest.NewServer(s)
	t.Cleanup(func() {
		s.Close()
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return s
}

// GraphQLURL is the endpoint to hand to the API client.
func (s *Server) GraphQLURL() string {
	return s.URL + "/graphql/"
}

// Calls reports how many requests hit field.
func (s *Server) Calls(field string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[field]
}

// TotalCalls reports every request received.
func (s *Server) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

// Fail makes every later request for field return a GraphQL error with msg.
// An empty msg clears the failure.
func (s *Server) Fail(field, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg == "" {
		delete(s.failures, field)
		return
	}
	s.failures[field] = msg
}

// SeedClient inserts a client and returns its id.
func (s *Server) SeedClient(t testing.TB, name, nit, phone string) string {
	t.Helper()
	row, err := s.store.createClient(name, phone, nit)
	if err != nil {
		t.Fatalf("apitest: seed client: %v", err)
	}
	return strconv.FormatUint(uint64(row.ID), 10)
}

// SeedItem describes a line for SeedProforma.
type SeedItem struct {
	Description string
	Quantity    int
	UnitPrice   string
}

// SeedProforma inserts a proforma with the given status and returns its id.
func (s *Server) SeedProforma(t testing.TB, clientID, vehicleRef, status string, items ...SeedItem) string {
	t.Helper()
	cid, err := strconv.ParseUint(clientID, 10, 64)
	if err != nil {
		t.Fatalf("apitest: client id %q: %v", clientID, err)
	}
	args := make([]itemArg, 0, len(items))
	for _, it := range items {
		args = append(args, itemArg(it))
	}
	row, err := s.store.createProforma(uint(cid), vehicleRef, "", args, s.Now())
	if err != nil {
		t.Fatalf("apitest: seed proforma: %v", err)
	}
	if status != "" && status != row.Status {
		if _, err := s.store.updateStatus(row.ID, status); err != nil {
			t.Fatalf("apitest: seed status: %v", err)
		}
	}
	return strconv.FormatUint(uint64(row.ID), 10)
}

// Status returns the stored status of proforma id.
func (s *Server) Status(t testing.TB, id string) string {
	t.Helper()
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		t.Fatalf("apitest: proforma id %q: %v", id, err)
	}
	row, err := s.store.getProforma(uint(n))
	if err != nil {
		t.Fatalf("apitest: get proforma: %v", err)
	}
	return row.Status
}

type gqlRequest struct {
	Query     string                     `json:"query"`
	Variables map[string]json.RawMessage `json:"variables"`
}

type gqlError struct {
	Message string `json:"message"`
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req gqlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrors(w, "invalid request body: "+err.Error())
		return
	}

	field := rootField(req.Query)
	s.mu.Lock()
	s.calls[field]++
	failure := s.failures[field]
	s.mu.Unlock()

	if failure != "" {
		writeErrors(w, failure)
		return
	}

	data, err := s.resolve(field, req.Variables)
	if err != nil {
		writeErrors(w, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{field: data}})
}

func rootField(query string) string {
	for _, f := range fieldOrder {
		if strings.Contains(query, f+"(") {
			return f
		}
	}
	return ""
}

func writeErrors(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"data":   nil,
		"errors": []gqlError{{Message: msg}},
	})
}
