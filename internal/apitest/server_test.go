package apitest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
)

func post(t *testing.T, s *Server, query string, vars map[string]any) map[string]any {
	t.Helper()
	body, _ := json.Marshal(map[string]any{"query": query, "variables": vars})
	resp, err := http.Post(s.GraphQLURL(), "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func TestRootField(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"mutation { createProforma(clientId: 1) { proforma { id } } }", FieldCreateProforma},
		{"mutation { updateProformaStatus(id: 1) { proforma { id } } }", FieldUpdateProformaStatus},
		{"query { proforma(id: 1) { id } }", FieldProforma},
		{"query { allProformas(search: $s) { id } }", FieldAllProformas},
		{"query { allClients(name: $n) { id } }", FieldAllClients},
		{"mutation { createClient(name: $n) { client { id } } }", FieldCreateClient},
		{"query { somethingElse { id } }", ""},
	}
	for _, tt := range tests {
		if got := rootField(tt.query); got != tt.want {
			t.Errorf("rootField(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}

func TestServer_ListFiltersBySearch(t *testing.T) {
	s := New(t)
	ana := s.SeedClient(t, "Ana Pérez", "123", "")
	luis := s.SeedClient(t, "Luis Rojas", "456", "700")
	s.SeedProforma(t, ana, "Volvo FH", "PENDING", SeedItem{"Soldadura", 2, "100"})
	s.SeedProforma(t, luis, "Scania R450", "PAID", SeedItem{"Pintura", 1, "50.5"})

	out := post(t, s, "query { allProformas(search: $search) { id } }", map[string]any{"search": "ana"})
	list := out["data"].(map[string]any)[FieldAllProformas].([]any)
	if len(list) != 1 {
		t.Fatalf("got %d proformas, want 1", len(list))
	}
	p := list[0].(map[string]any)
	if p["vehicleRef"] != "Volvo FH" || p["total"] != "200.00" {
		t.Errorf("unexpected proforma %v", p)
	}

	out = post(t, s, "query { allProformas(search: $search) { id } }", map[string]any{"search": "scania"})
	list = out["data"].(map[string]any)[FieldAllProformas].([]any)
	if len(list) != 1 {
		t.Fatalf("vehicle search: got %d proformas, want 1", len(list))
	}
	if s.Calls(FieldAllProformas) != 2 {
		t.Errorf("Calls = %d, want 2", s.Calls(FieldAllProformas))
	}
}

func TestServer_Fail(t *testing.T) {
	s := New(t)
	s.Fail(FieldAllClients, "boom")

	out := post(t, s, "query { allClients(name: $name) { id } }", map[string]any{"name": "x"})
	errs, ok := out["errors"].([]any)
	if !ok || len(errs) != 1 {
		t.Fatalf("expected one error, got %v", out)
	}
	if msg := errs[0].(map[string]any)["message"]; msg != "boom" {
		t.Errorf("message = %v, want boom", msg)
	}

	s.Fail(FieldAllClients, "")
	out = post(t, s, "query { allClients(name: $name) { id } }", nil)
	if _, ok := out["errors"]; ok {
		t.Errorf("failure not cleared: %v", out)
	}
	if s.TotalCalls() != 2 {
		t.Errorf("TotalCalls = %d, want 2", s.TotalCalls())
	}
}

func TestServer_UpdateUnknownProforma(t *testing.T) {
	s := New(t)
	out := post(t, s, "mutation { updateProformaStatus(id: $id, status: $status) { proforma { id } } }",
		map[string]any{"id": "99", "status": "PAID"})
	errs, ok := out["errors"].([]any)
	if !ok || errs[0].(map[string]any)["message"] != "Proforma no encontrada" {
		t.Errorf("unexpected response %v", out)
	}
}
