package v1

import (
	"net/http"

	"match-backend/internal/delivery/http/response"
	"match-backend/internal/domain"
	"match-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type MatchHandler struct {
	matchUC domain.MatchUsecase
}

func NewMatchHandler(protected *gin.RouterGroup, matchUC domain.MatchUsecase) {
	handler := &MatchHandler{matchUC: matchUC}

	matches := protected.Group("/profiles/:id/matches")
	{
		matches.GET("", handler.List)
		matches.POST("/resolve", handler.Resolve)
		matches.POST("/reconcile", handler.Reconcile)
	}
}

// ResolveRequest promotes candidates to matches. Omitting likes or liked_by
// removes just the candidates from that set.
type ResolveRequest struct {
	Candidates []string `json:"candidates" binding:"required,min=1,dive,required"`
	Likes      []string `json:"likes"`
	LikedBy    []string `json:"liked_by"`
}

type ReconcileResponse struct {
	Matched []string `json:"matched"`
}

// Resolve godoc
// @Summary      Commit matches
// @Description  Moves mutual likes into matched on both sides.
// @Tags         matches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string          true  "Profile ID"
// @Param        resolve  body      ResolveRequest  true  "Candidates"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /profiles/{id}/matches/resolve [post]
func (h *MatchHandler) Resolve(c *gin.Context) {
	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	err := h.matchUC.ResolveMatches(c.Request.Context(), domain.MatchResolution{
		ProfileID:      c.Param("id"),
		Candidates:     req.Candidates,
		UpdatedLikes:   req.Likes,
		UpdatedLikedBy: req.LikedBy,
	})
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Matches resolved", nil)
}

// Reconcile godoc
// @Summary      Resolve all pending mutual likes
// @Tags         matches
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Profile ID"
// @Success      200  {object}  response.Response{data=ReconcileResponse}
// @Failure      403  {object}  response.Response
// @Router       /profiles/{id}/matches/reconcile [post]
func (h *MatchHandler) Reconcile(c *gin.Context) {
	matched, err := h.matchUC.Reconcile(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	if matched == nil {
		matched = []string{}
	}
	response.Success(c, http.StatusOK, "Matches reconciled", ReconcileResponse{Matched: matched})
}

// List godoc
// @Summary      List matched profiles
// @Tags         matches
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Profile ID"
// @Success      200  {object}  response.Response{data=[]domain.Profile}
// @Failure      404  {object}  response.Response
// @Router       /profiles/{id}/matches [get]
func (h *MatchHandler) List(c *gin.Context) {
	profiles, err := h.matchUC.ListMatches(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Matches retrieved", profiles)
}
