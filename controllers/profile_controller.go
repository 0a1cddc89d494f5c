package controllers

import (
	"net/http"

	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/middleware"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/models"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/services"
	"github.com/gin-gonic/gin"
)

// ProfileController serves the signed-in shopper's profile. Every route sits
// behind middleware.RequireAuth.
type ProfileController struct {
	profiles services.ProfileService
}

func NewProfileController(profiles services.ProfileService) *ProfileController {
	return &ProfileController{profiles: profiles}
}

func (pc *ProfileController) GetProfile(c *gin.Context) {
	page, svcErr := pc.profiles.GetProfile(c.Request.Context(), middleware.CurrentUser(c).ID)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (pc *ProfileController) UpdateProfile(c *gin.Context) {
	var req models.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	profile, svcErr := pc.profiles.UpdateProfile(c.Request.Context(), middleware.CurrentUser(c).ID, req)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile, "message": "Profile updated successfully"})
}

func (pc *ProfileController) GetOrder(c *gin.Context) {
	order, msg, svcErr := pc.profiles.GetOrder(c.Request.Context(), middleware.CurrentUser(c).ID, c.Param("order_number"))
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order, "message": msg})
}

func (pc *ProfileController) Wishlist(c *gin.Context) {
	products, meta, svcErr := pc.profiles.Wishlist(c.Request.Context(), middleware.CurrentUser(c).ID, pageQuery(c))
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "meta": meta})
}

func (pc *ProfileController) ToggleWishlist(c *gin.Context) {
	id, ok := uintParam(c, "product_id", "product")
	if !ok {
		return
	}
	res, svcErr := pc.profiles.ToggleWishlist(c.Request.Context(), middleware.CurrentUser(c).ID, id)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, res)
}
