package database

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestOptional_UnmarshalTracksPresence(t *testing.T) {
	var patch ProjectUpdate
	if err := json.Unmarshal([]byte(`{"progress": 0, "raised": null, "description": ""}`), &patch); err != nil {
		t.Fatalf("failed to decode patch: %v", err)
	}

	if v, ok := patch.Progress.Get(); !ok || v != 0 {
		t.Fatalf("expected present progress 0, got %v %v", v, ok)
	}
	if v, ok := patch.Raised.Get(); !ok || v != nil {
		t.Fatalf("expected present null raised, got %v %v", v, ok)
	}
	if v, ok := patch.Description.Get(); !ok || v != "" {
		t.Fatalf("expected present empty description, got %q %v", v, ok)
	}
	if patch.Title.IsSet() || patch.Beneficiaries.IsSet() || patch.StartDate.IsSet() {
		t.Fatalf("expected absent keys to stay unset: %+v", patch)
	}
}

func TestOptional_MarshalAbsentAsNull(t *testing.T) {
	data, err := json.Marshal(struct {
		A Optional[int] `json:"a"`
		B Optional[int] `json:"b"`
	}{B: Some(3)})
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	if string(data) != `{"a":null,"b":3}` {
		t.Fatalf("unexpected encoding %s", data)
	}
}

func TestSetClauses_Statement(t *testing.T) {
	var s setClauses
	addSet(&s, "title", Some("x"))
	addSet(&s, "progress", Optional[int]{})
	addSetNullable(&s, "raised", Some[*float64](nil))

	query, args := s.statement("projects", true, 7)
	if !strings.HasPrefix(query, "UPDATE projects SET title = ?, raised = ?, updated_at = ") {
		t.Fatalf("unexpected query %q", query)
	}
	if !strings.HasSuffix(query, " WHERE id = ?") {
		t.Fatalf("unexpected query suffix %q", query)
	}
	if len(args) != 3 || args[0] != "x" || args[1] != nil || args[2] != int64(7) {
		t.Fatalf("unexpected args %#v", args)
	}
}

func TestSetClauses_EmptyWithoutUpdatedAt(t *testing.T) {
	var s setClauses

	query, args := s.statement("team_members", false, 1)
	if query != "UPDATE team_members SET id = id WHERE id = ?" {
		t.Fatalf("unexpected query %q", query)
	}
	if len(args) != 1 {
		t.Fatalf("expected only the id argument, got %#v", args)
	}
}
