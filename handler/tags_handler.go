package handler

import (
	"tonotes/dto"
	"tonotes/usecase"
	"tonotes/utils"

	"github.com/gin-gonic/gin"
)

func ListTagsHandler(c *gin.Context, tagsService *usecase.TagsService) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	tags, err := tagsService.ListTags(c.Request.Context(), identity)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, tags)
}

func CreateTagHandler(c *gin.Context, tagsService *usecase.TagsService) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	var req dto.CreateTagRequest
	if !bindJSON(c, &req) {
		return
	}

	tag, err := tagsService.CreateTag(c.Request.Context(), identity, req.Name, req.NoteID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.TrackTagOperation("create")
	utils.Created(c, tag)
}

func DeleteTagHandler(c *gin.Context, tagsService *usecase.TagsService) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	if err := tagsService.DeleteTag(c.Request.Context(), identity, c.Param("id")); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.TrackTagOperation("delete")
	utils.OK(c)
}

// NoteTagsHandler lists the tags attached to the note in :id.
func NoteTagsHandler(c *gin.Context, tagsService *usecase.TagsService) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	tags, err := tagsService.TagsForNote(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, tags)
}

func LinkTagsHandler(c *gin.Context, tagsService *usecase.TagsService) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	var req dto.LinkTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// A missing body, or tagIds that is not an array of strings, is the same mistake.
		utils.BadRequest(c, "tagIds must be a non-empty array")
		return
	}

	if err := tagsService.LinkTags(c.Request.Context(), identity, c.Param("id"), req.TagIDs); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.TrackTagOperation("link")
	utils.Created(c, nil)
}

func UnlinkTagHandler(c *gin.Context, tagsService *usecase.TagsService) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	if err := tagsService.UnlinkTag(c.Request.Context(), identity, c.Param("id"), c.Param("tagId")); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.TrackTagOperation("unlink")
	utils.OK(c)
}

// TagNotesHandler lists the notes carrying the tag in :id, pinned first.
func TagNotesHandler(c *gin.Context, tagsService *usecase.TagsService) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	notes, err := tagsService.NotesForTag(c.Request.Context(), identity, c.Param("id"), c.Query("q"))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, notes)
}
