package controllers

import (
	"net/http"

	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/models"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/services"
	"github.com/gin-gonic/gin"
)

type HomeController struct {
	home services.HomeService
}

func NewHomeController(home services.HomeService) *HomeController {
	return &HomeController{home: home}
}

func (hc *HomeController) Index(c *gin.Context) {
	page, svcErr := hc.home.Index(c.Request.Context())
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (hc *HomeController) Contact(c *gin.Context) {
	var req models.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	msg, svcErr := hc.home.Contact(c.Request.Context(), req)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": msg})
}
