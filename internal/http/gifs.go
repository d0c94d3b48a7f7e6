package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/giftags/internal/audit"
	"github.com/mrlokans/giftags/internal/services"
)

// GifsController serves the bot-facing endpoints: search, per-GIF tags and the user's tag list.
type GifsController struct {
	store   GifTagStore
	auditor *audit.Auditor
}

// NewGifsController creates a new GifsController. auditor may be nil.
func NewGifsController(store GifTagStore, auditor *audit.Auditor) *GifsController {
	return &GifsController{store: store, auditor: auditor}
}

// SetTagsRequest is the body of PUT /user/:tg_user_id/gif/:gif_id.
// Tags must be present but may be empty, which removes every tag.
type SetTagsRequest struct {
	Tags []string `json:"tags" binding:"required,dive,min=1,max=100"`
}

// Search handles GET /search?tg_user_id=<id>&tags=<tag>...
// Returns the user's GIFs carrying every requested tag.
func (gc *GifsController) Search(c *gin.Context) {
	tgUserID, ok := parseTgUserIDQuery(c, "tg_user_id")
	if !ok {
		return
	}

	result, err := gc.store.GetUserGifsWithTags(c.Request.Context(), services.GifQuery{
		UserRef: services.UserRef{TgID: &tgUserID},
		Tags:    c.QueryArray("tags"),
	})
	if err != nil {
		respondServiceError(c, err, "user", "search gifs")
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetUserGif handles GET /user/:tg_user_id/gif/:gif_id
func (gc *GifsController) GetUserGif(c *gin.Context) {
	tgUserID, ok := parseTgUserIDParam(c, "tg_user_id")
	if !ok {
		return
	}
	tgGifID := c.Param("gif_id")

	result, err := gc.store.GetUserGifsWithTags(c.Request.Context(), services.GifQuery{
		UserRef:  services.UserRef{TgID: &tgUserID},
		TgGifIDs: []string{tgGifID},
	})
	if err != nil {
		respondServiceError(c, err, "gif", "get user gif")
		return
	}
	if len(result.Gifs) == 0 {
		respondNotFound(c, "gif")
		return
	}

	c.JSON(http.StatusOK, result.Gifs[0])
}

// SetUserGifTags handles PUT /user/:tg_user_id/gif/:gif_id
// Replaces the user's tags on the GIF with the given set.
func (gc *GifsController) SetUserGifTags(c *gin.Context) {
	tgUserID, ok := parseTgUserIDParam(c, "tg_user_id")
	if !ok {
		return
	}
	tgGifID := c.Param("gif_id")

	var req SetTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	if err := gc.store.ReconcileGifTags(c.Request.Context(), tgUserID, tgGifID, req.Tags); err != nil {
		respondServiceError(c, err, "gif", "set gif tags")
		return
	}

	gc.audit(c, audit.Record{
		Action:   audit.ActionSetTags,
		TgUserID: tgUserID,
		GifID:    tgGifID,
		Tags:     req.Tags,
	})
	respondSuccessful(c)
}

// DeleteUserGifTags handles DELETE /user/:tg_user_id/gif/:gif_id?gif_id_type=tg|db
func (gc *GifsController) DeleteUserGifTags(c *gin.Context) {
	tgUserID, ok := parseTgUserIDParam(c, "tg_user_id")
	if !ok {
		return
	}
	gifID := c.Param("gif_id")

	idType, err := services.ParseGifIDType(c.Query("gif_id_type"))
	if err != nil {
		respondServiceError(c, err, "gif", "parse gif id type")
		return
	}

	deleted, err := gc.store.DeleteUserGifTags(c.Request.Context(), tgUserID, gifID, idType)
	if err != nil {
		respondServiceError(c, err, "gif", "delete gif tags")
		return
	}
	if deleted == 0 {
		respondNotFound(c, "gif")
		return
	}

	gc.audit(c, audit.Record{
		Action:    audit.ActionDeleteTags,
		TgUserID:  tgUserID,
		GifID:     gifID,
		GifIDType: string(idType),
		Deleted:   &deleted,
	})
	respondSuccessful(c)
}

// GetUserTags handles GET /user/:tg_user_id/tags
func (gc *GifsController) GetUserTags(c *gin.Context) {
	tgUserID, ok := parseTgUserIDParam(c, "tg_user_id")
	if !ok {
		return
	}

	result, err := gc.store.GetAllUserTags(c.Request.Context(), services.UserRef{TgID: &tgUserID})
	if err != nil {
		respondServiceError(c, err, "user", "get user tags")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (gc *GifsController) audit(c *gin.Context, r audit.Record) {
	if gc.auditor == nil {
		return
	}
	r.RequestID = requestID(c)
	gc.auditor.Save(r)
}
