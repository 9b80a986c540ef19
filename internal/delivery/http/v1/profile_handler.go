package v1

import (
	"net/http"

	"match-backend/internal/delivery/http/response"
	"match-backend/internal/domain"
	"match-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileUC domain.ProfileUsecase
}

func NewProfileHandler(protected *gin.RouterGroup, profileUC domain.ProfileUsecase) {
	handler := &ProfileHandler{profileUC: profileUC}

	profiles := protected.Group("/profiles")
	{
		profiles.GET("", handler.List)
		profiles.POST("", handler.Create)
		profiles.GET("/:id", handler.Get)
		profiles.PATCH("/:id", handler.Update)
		profiles.DELETE("/:id", handler.Delete)
	}
}

// CreateProfileRequest carries only demographic fields. Relation sets
// start empty and change through reactions and matches.
type CreateProfileRequest struct {
	Name        string  `json:"name" binding:"required"`
	Age         int     `json:"age" binding:"required"`
	Gender      string  `json:"gender" binding:"required"`
	Location    string  `json:"location" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Tag         *string `json:"tag"`
}

type UpdateProfileRequest struct {
	Owner       *string `json:"owner"`
	Name        *string `json:"name"`
	Age         *int    `json:"age"`
	Gender      *string `json:"gender"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
	Tag         *string `json:"tag"`
	Version     *int64  `json:"version"`
}

func (r UpdateProfileRequest) toPatch() domain.ProfilePatch {
	return domain.ProfilePatch{
		OwnerID:         r.Owner,
		Name:            r.Name,
		Age:             r.Age,
		Gender:          r.Gender,
		Location:        r.Location,
		Description:     r.Description,
		Tag:             r.Tag,
		ExpectedVersion: r.Version,
	}
}

// List godoc
// @Summary      List profiles
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]domain.Profile}
// @Router       /profiles [get]
func (h *ProfileHandler) List(c *gin.Context) {
	profiles, err := h.profileUC.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profiles retrieved", profiles)
}

// Get godoc
// @Summary      Get a profile
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Profile ID"
// @Success      200  {object}  response.Response{data=domain.Profile}
// @Failure      404  {object}  response.Response
// @Router       /profiles/{id} [get]
func (h *ProfileHandler) Get(c *gin.Context) {
	profile, err := h.profileUC.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile retrieved", profile)
}

// Create godoc
// @Summary      Create a profile
// @Description  Creates a profile owned by the authenticated account.
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        profile  body      CreateProfileRequest  true  "Profile"
// @Success      201      {object}  response.Response{data=domain.Profile}
// @Failure      400      {object}  response.Response
// @Router       /profiles [post]
func (h *ProfileHandler) Create(c *gin.Context) {
	var req CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	profile := &domain.Profile{
		Name:        req.Name,
		Age:         req.Age,
		Gender:      req.Gender,
		Location:    req.Location,
		Description: req.Description,
		Tag:         req.Tag,
	}
	if err := h.profileUC.Create(c.Request.Context(), profile); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Profile created", profile)
}

// Update godoc
// @Summary      Update profile demographics
// @Description  Partial update. Relation sets cannot be changed here. Pass version for an optimistic check.
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                true  "Profile ID"
// @Param        profile  body      UpdateProfileRequest  true  "Fields to change"
// @Success      200      {object}  response.Response{data=domain.Profile}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /profiles/{id} [patch]
func (h *ProfileHandler) Update(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	profile, err := h.profileUC.Update(c.Request.Context(), c.Param("id"), req.toPatch())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile updated", profile)
}

// Delete godoc
// @Summary      Delete a profile
// @Description  References held by other profiles are removed in the background.
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Profile ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /profiles/{id} [delete]
func (h *ProfileHandler) Delete(c *gin.Context) {
	if err := h.profileUC.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile deleted", nil)
}
