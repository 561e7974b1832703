package handler

import (
	"tonotes/dto"
	"tonotes/model"
	"tonotes/usecase"
	"tonotes/utils"

	"github.com/gin-gonic/gin"
)

func ListNotesHandler(c *gin.Context, notesService *usecase.NotesService) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	filter := model.NoteFilter{
		Query:    c.Query("q"),
		Archived: utils.BoolQuery(c, "archived"),
		Pinned:   utils.BoolQuery(c, "pinned"),
		Starred:  utils.BoolQuery(c, "starred"),
	}

	notes, err := notesService.ListNotes(c.Request.Context(), identity, filter)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, notes)
}

func CreateNoteHandler(c *gin.Context, notesService *usecase.NotesService) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	var req dto.CreateNoteRequest
	if !bindJSON(c, &req) {
		return
	}

	note, err := notesService.CreateNote(c.Request.Context(), identity, req.ToInput())
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.TrackNoteOperation("create")
	utils.Created(c, note)
}

func GetNoteHandler(c *gin.Context, notesService *usecase.NotesService) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	note, err := notesService.GetNote(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, note)
}

func UpdateNoteHandler(c *gin.Context, notesService *usecase.NotesService) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	var req dto.UpdateNoteRequest
	if !bindJSON(c, &req) {
		return
	}

	note, err := notesService.UpdateNote(c.Request.Context(), identity, c.Param("id"), req.ToPatch())
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.TrackNoteOperation("update")
	utils.Success(c, note)
}

func DeleteNoteHandler(c *gin.Context, notesService *usecase.NotesService) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	if err := notesService.DeleteNote(c.Request.Context(), identity, c.Param("id")); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.TrackNoteOperation("delete")
	utils.OK(c)
}
