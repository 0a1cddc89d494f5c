package controllers

import (
	"net/http"

	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/models"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/services"
	"github.com/gin-gonic/gin"
)

type NewsletterController struct {
	newsletter services.NewsletterService
}

func NewNewsletterController(newsletter services.NewsletterService) *NewsletterController {
	return &NewsletterController{newsletter: newsletter}
}

func (nc *NewsletterController) Subscribe(c *gin.Context) {
	var req models.NewsletterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	msg, svcErr := nc.newsletter.Subscribe(c.Request.Context(), req.Email)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

func (nc *NewsletterController) Unsubscribe(c *gin.Context) {
	var req models.NewsletterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	msg, svcErr := nc.newsletter.Unsubscribe(c.Request.Context(), req.Email)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

func (nc *NewsletterController) Ping(c *gin.Context) {
	status, svcErr := nc.newsletter.Ping(c.Request.Context())
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"health_status": status})
}
