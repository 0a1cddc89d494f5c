package controllers

import (
	"net/http"
	"strconv"

	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/services"
	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, svcErr *services.ServiceError) {
	c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
}

// uintParam reads a numeric path parameter, answering 400 when it is not one.
func uintParam(c *gin.Context, name, label string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + label + " ID"})
		return 0, false
	}
	return uint(id), true
}

// pageQuery returns ?page as a positive int, or 1.
func pageQuery(c *gin.Context) int {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
