package controllers

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/logger"
	aws_pkg "github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/pkg/aws"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Presigner is satisfied by aws_pkg.Presigner.
type Presigner interface {
	PresignPut(ctx context.Context, key, contentType string) (*aws_pkg.PresignedUpload, error)
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-z0-9._-]+`)

type presignRequest struct {
	Folder      string `json:"folder" binding:"required,oneof=products blog"`
	Filename    string `json:"filename" binding:"required,max=200"`
	ContentType string `json:"content_type" binding:"required,oneof=image/jpeg image/png image/webp image/gif"`
}

// MediaController hands staff presigned S3 URLs for product and blog images.
type MediaController struct {
	presigner Presigner
	timeout   time.Duration
}

func NewMediaController(presigner Presigner) *MediaController {
	return &MediaController{presigner: presigner, timeout: 10 * time.Second}
}

// Presign handles POST /media/presign (staff only).
func (mc *MediaController) Presign(c *gin.Context) {
	if mc.presigner == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Media uploads are not configured"})
		return
	}
	var req presignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	name := mediaFilename(req.Filename)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filename"})
		return
	}
	key := fmt.Sprintf("%s/%s-%s", req.Folder, uuid.NewString()[:8], name)

	ctx, cancel := context.WithTimeout(c.Request.Context(), mc.timeout)
	defer cancel()

	upload, err := mc.presigner.PresignPut(ctx, key, req.ContentType)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to generate presigned upload", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate presigned upload"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"upload_url": upload.URL,
		"method":     http.MethodPut,
		"key":        upload.Key,
		"headers":    upload.Headers,
		"expires_at": upload.ExpiresAt,
	})
}

// mediaFilename keeps the base name, lower-cased, with anything outside
// [a-z0-9._-] collapsed to a dash.
func mediaFilename(name string) string {
	base := strings.ToLower(path.Base(strings.ReplaceAll(name, `\`, "/")))
	base = strings.Trim(unsafeFilenameChars.ReplaceAllString(base, "-"), "-.")
	return base
}
