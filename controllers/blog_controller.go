package controllers

import (
	"net/http"

	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/middleware"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/models"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/services"
	"github.com/gin-gonic/gin"
)

type BlogController struct {
	blog services.BlogService
}

func NewBlogController(blog services.BlogService) *BlogController {
	return &BlogController{blog: blog}
}

// ListPosts handles GET /blog?page=N.
func (bc *BlogController) ListPosts(c *gin.Context) {
	list, svcErr := bc.blog.ListPosts(c.Request.Context(), pageQuery(c))
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetPost handles GET /blog/:slug.
func (bc *BlogController) GetPost(c *gin.Context) {
	detail, svcErr := bc.blog.GetPost(c.Request.Context(), c.Param("slug"), middleware.CurrentUser(c))
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// CreatePost handles POST /blog (staff only).
func (bc *BlogController) CreatePost(c *gin.Context) {
	var req models.PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	post, svcErr := bc.blog.CreatePost(c.Request.Context(), middleware.CurrentUser(c), req)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// UpdatePost handles PUT /blog/:slug (staff only).
func (bc *BlogController) UpdatePost(c *gin.Context) {
	var req models.PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	post, svcErr := bc.blog.UpdatePost(c.Request.Context(), c.Param("slug"), req)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// AddComment handles POST /blog/:slug/comments.
func (bc *BlogController) AddComment(c *gin.Context) {
	var req models.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	comment, msg, svcErr := bc.blog.AddComment(c.Request.Context(), c.Param("slug"), middleware.CurrentUser(c), req)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": comment, "message": msg})
}
