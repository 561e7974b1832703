package dto

type CreateTagRequest struct {
	Name   string `json:"name"`
	NoteID string `json:"note_id"`
}

type LinkTagsRequest struct {
	TagIDs []string `json:"tagIds"`
}
