package dto

import (
	"tonotes/model"
	"tonotes/usecase"
)

type CreateNoteRequest struct {
	Title      string   `json:"title"`
	Content    *string  `json:"content"`
	IsArchived Truthy   `json:"is_archived"`
	IsPinned   Truthy   `json:"is_pinned"`
	Color      *string  `json:"color"`
	TagIDs     []string `json:"tagIds"`
}

func (r CreateNoteRequest) ToInput() usecase.CreateNoteInput {
	return usecase.CreateNoteInput{
		Title:      r.Title,
		Content:    r.Content,
		IsArchived: r.IsArchived.Bool(),
		IsPinned:   r.IsPinned.Bool(),
		Color:      r.Color,
		TagIDs:     r.TagIDs,
	}
}

// UpdateNoteRequest only touches the fields present in the body.
type UpdateNoteRequest struct {
	Title      model.Optional[string]  `json:"title"`
	Content    model.Optional[*string] `json:"content"`
	IsArchived model.Optional[Truthy]  `json:"is_archived"`
	IsPinned   model.Optional[Truthy]  `json:"is_pinned"`
	IsStarred  model.Optional[Truthy]  `json:"is_starred"`
	Color      model.Optional[*string] `json:"color"`
}

func (r UpdateNoteRequest) ToPatch() model.NotePatch {
	return model.NotePatch{
		Title:      r.Title,
		Content:    r.Content,
		IsArchived: truthyField(r.IsArchived),
		IsPinned:   truthyField(r.IsPinned),
		IsStarred:  truthyField(r.IsStarred),
		Color:      r.Color,
	}
}

func truthyField(o model.Optional[Truthy]) model.Optional[bool] {
	return model.Optional[bool]{Set: o.Set, Value: o.Value.Bool()}
}
