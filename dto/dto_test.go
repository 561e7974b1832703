package dto

import (
	"encoding/json"
	"testing"
)

func TestTruthy(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{`true`, true},
		{`false`, false},
		{`null`, false},
		{`0`, false},
		{`0.0`, false},
		{`1`, true},
		{`-2.5`, true},
		{`""`, false},
		{`"false"`, true},
		{`"0"`, true},
		{`[]`, true},
		{`{}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var body struct {
				Flag Truthy `json:"flag"`
			}
			if err := json.Unmarshal([]byte(`{"flag":`+tt.raw+`}`), &body); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if body.Flag.Bool() != tt.want {
				t.Errorf("Truthy(%s) = %v, want %v", tt.raw, body.Flag, tt.want)
			}
		})
	}
}

func TestUpdateNoteRequestToPatch(t *testing.T) {
	var req UpdateNoteRequest
	body := `{"is_pinned": 1, "content": null, "is_starred": ""}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	patch := req.ToPatch()
	if patch.Title.Set || patch.IsArchived.Set || patch.Color.Set {
		t.Errorf("absent fields must stay unset: %+v", patch)
	}
	if !patch.IsPinned.Set || !patch.IsPinned.Value {
		t.Error("is_pinned: 1 should set true")
	}
	if !patch.IsStarred.Set || patch.IsStarred.Value {
		t.Error(`is_starred: "" should set false`)
	}
	if !patch.Content.Set || patch.Content.Value != nil {
		t.Error("content: null should clear the content")
	}
}

func TestCreateNoteRequestToInput(t *testing.T) {
	var req CreateNoteRequest
	body := `{"title":"Hi","is_archived":"yes","tagIds":["a","b"]}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	in := req.ToInput()
	if in.Title != "Hi" || !in.IsArchived || in.IsPinned || len(in.TagIDs) != 2 {
		t.Errorf("unexpected input %+v", in)
	}
}
