package repository

import (
	"reflect"
	"testing"

	"tonotes/model"

	"go.mongodb.org/mongo-driver/bson"
)

func TestLikePattern(t *testing.T) {
	tests := []struct {
		term string
		want string
	}{
		{"Meeting", "%meeting%"},
		{"100%", `%100\%%`},
		{"snake_case", `%snake\_case%`},
		{`C:\temp`, `%c:\\temp%`},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			if got := likePattern(tt.term); got != tt.want {
				t.Errorf("likePattern(%q) = %q, want %q", tt.term, got, tt.want)
			}
		})
	}
}

func TestNoteFilter(t *testing.T) {
	yes, no := true, false

	t.Run("owner only", func(t *testing.T) {
		got := noteFilter("u1", model.NoteFilter{})
		want := bson.M{"user_id": "u1"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("flags", func(t *testing.T) {
		got := noteFilter("u1", model.NoteFilter{Archived: &no, Pinned: &yes, Starred: &yes})
		if got["is_archived"] != false || got["is_pinned"] != true || got["is_starred"] != true {
			t.Errorf("unexpected filter %v", got)
		}
	})

	t.Run("query is a literal", func(t *testing.T) {
		got := noteFilter("u1", model.NoteFilter{Query: "a.b*"})
		or, ok := got["$or"].([]bson.M)
		if !ok || len(or) != 2 {
			t.Fatalf("expected two $or clauses, got %v", got["$or"])
		}
		title := or[0]["title"].(bson.M)
		if title["$regex"] != `a\.b\*` || title["$options"] != "i" {
			t.Errorf("unexpected title clause %v", title)
		}
	})
}

func TestPatchFields(t *testing.T) {
	red := "red"
	patch := model.NotePatch{
		Title:    model.Some("New"),
		Content:  model.Some[*string](nil),
		IsPinned: model.Some(true),
		Color:    model.Some(&red),
	}

	got := patchFields(patch)
	want := map[string]interface{}{
		"title":     "New",
		"content":   nil,
		"is_pinned": true,
		"color":     "red",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("patchFields() = %v, want %v", got, want)
	}

	if len(patchFields(model.NotePatch{})) != 0 {
		t.Error("empty patch should set nothing")
	}
}
