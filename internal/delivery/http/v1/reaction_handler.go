package v1

import (
	"net/http"

	"match-backend/internal/delivery/http/response"
	"match-backend/internal/domain"
	"match-backend/pkg/apperror"
	"match-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

type ReactionHandler struct {
	reactionUC  domain.ReactionUsecase
	matchUC     domain.MatchUsecase
	autoResolve bool
}

func NewReactionHandler(protected *gin.RouterGroup, reactionUC domain.ReactionUsecase, matchUC domain.MatchUsecase, autoResolve bool) {
	handler := &ReactionHandler{
		reactionUC:  reactionUC,
		matchUC:     matchUC,
		autoResolve: autoResolve,
	}

	protected.POST("/profiles/:id/reactions", handler.React)
}

type ReactionRequest struct {
	TargetID string `json:"target_id" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

type ReactionResponse struct {
	*domain.ReactionResult
	Matched []string `json:"matched,omitempty"`
}

// React godoc
// @Summary      Like or dislike another profile
// @Description  Records the reaction on both profiles. Repeating a reaction changes nothing.
// @Tags         reactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id        path      string           true  "Acting profile ID"
// @Param        reaction  body      ReactionRequest  true  "Reaction"
// @Success      200       {object}  response.Response{data=ReactionResponse}
// @Failure      400       {object}  response.Response
// @Failure      403       {object}  response.Response
// @Failure      404       {object}  response.Response
// @Router       /profiles/{id}/reactions [post]
func (h *ReactionHandler) React(c *gin.Context) {
	var req ReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	action, err := domain.ParseAction(req.Action)
	if err != nil {
		c.Error(err)
		return
	}

	ctx := c.Request.Context()
	actorID := c.Param("id")
	result, err := h.reactionUC.ApplyReaction(ctx, actorID, req.TargetID, action)
	if err != nil {
		c.Error(err)
		return
	}

	resp := ReactionResponse{ReactionResult: result}
	if result.Mutual && h.autoResolve {
		// The reaction is already stored; a failed resolve is retried by
		// a later reconcile call.
		matched, err := h.matchUC.Reconcile(ctx, actorID)
		if err != nil {
			logger.Log.Warn("Auto resolve failed", "profile_id", actorID, "error", err)
		} else {
			resp.Matched = matched
		}
	}

	response.Success(c, http.StatusOK, "Reaction recorded", resp)
}
