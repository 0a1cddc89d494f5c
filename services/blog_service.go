package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/logger"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/models"
	aws_pkg "github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/pkg/aws"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	postsPerPage      = 6
	featuredPostLimit = 3
)

// PostList is one page of the blog index.
type PostList struct {
	Featured []models.Post   `json:"featured"`
	Posts    []models.Post   `json:"posts"`
	Meta     models.MetaData `json:"meta"`
}

// PostDetail is a post with its visible comments.
type PostDetail struct {
	Post            *models.Post     `json:"post"`
	Comments        []models.Comment `json:"comments"`
	PendingComments int64            `json:"pending_comments"`
}

type BlogService interface {
	ListPosts(ctx context.Context, page int) (*PostList, *ServiceError)
	GetPost(ctx context.Context, slug string, user *models.User) (*PostDetail, *ServiceError)
	CreatePost(ctx context.Context, author *models.User, req models.PostRequest) (*models.Post, *ServiceError)
	UpdatePost(ctx context.Context, slug string, req models.PostRequest) (*models.Post, *ServiceError)
	AddComment(ctx context.Context, slug string, user *models.User, req models.CommentRequest) (*models.Comment, string, *ServiceError)
}

type blogService struct {
	repo    repository.BlogRepository
	metrics aws_pkg.MetricsRecorder
}

func NewBlogService(repo repository.BlogRepository, metrics aws_pkg.MetricsRecorder) BlogService {
	return &blogService{repo: repo, metrics: metrics}
}

func (s *blogService) ListPosts(ctx context.Context, page int) (*PostList, *ServiceError) {
	if page < 1 {
		page = 1
	}
	posts, total, err := s.repo.ListPublished(ctx, page, postsPerPage)
	if err != nil {
		logger.Error(ctx, "Failed to list posts", err)
		return nil, internal("Failed to fetch posts")
	}
	featured, err := s.repo.ListFeatured(ctx, featuredPostLimit)
	if err != nil {
		logger.Error(ctx, "Failed to list featured posts", err)
		return nil, internal("Failed to fetch posts")
	}
	if posts == nil {
		posts = []models.Post{}
	}
	if featured == nil {
		featured = []models.Post{}
	}
	return &PostList{Featured: featured, Posts: posts, Meta: models.NewMetaData(page, postsPerPage, total)}, nil
}

// findVisible hides drafts from everyone but staff.
func (s *blogService) findVisible(ctx context.Context, slug string, user *models.User) (*models.Post, *ServiceError) {
	post, err := s.repo.FindBySlug(ctx, slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("Post not found")
	}
	if err != nil {
		logger.Error(ctx, "Failed to fetch post", err, zap.String("slug", slug))
		return nil, internal("Failed to fetch post")
	}
	if post.Status != models.PostPublished && (user == nil || !user.IsStaff) {
		return nil, notFound("Post not found")
	}
	return post, nil
}

func (s *blogService) GetPost(ctx context.Context, slug string, user *models.User) (*PostDetail, *ServiceError) {
	post, svcErr := s.findVisible(ctx, slug, user)
	if svcErr != nil {
		return nil, svcErr
	}

	comments, err := s.repo.ListApprovedComments(ctx, post.ID)
	if err != nil {
		logger.Error(ctx, "Failed to list comments", err)
		return nil, internal("Failed to fetch comments")
	}
	if comments == nil {
		comments = []models.Comment{}
	}

	userID := ""
	if user != nil {
		userID = user.ID
	}
	pending, err := s.repo.CountPendingComments(ctx, post.ID, userID)
	if err != nil {
		logger.Warn(ctx, "Failed to count pending comments", zap.Error(err))
	}
	return &PostDetail{Post: post, Comments: comments, PendingComments: pending}, nil
}

func applyPostRequest(post *models.Post, req models.PostRequest) {
	post.Title = strings.TrimSpace(req.Title)
	post.Slug = models.Slugify(post.Title)
	post.Excerpt = req.Excerpt
	post.Content = req.Content
	post.Status = req.Status
	post.Featured = req.Featured
	post.FeaturedImage = req.FeaturedImage
}

func (s *blogService) CreatePost(ctx context.Context, author *models.User, req models.PostRequest) (*models.Post, *ServiceError) {
	post := &models.Post{AuthorID: author.ID}
	applyPostRequest(post, req)
	if post.Slug == "" {
		return nil, badRequest("Title must contain letters or digits")
	}
	if err := s.repo.Create(ctx, post); err != nil {
		logger.Error(ctx, "Failed to create post", err)
		return nil, &ServiceError{StatusCode: http.StatusConflict, Message: "A post with this title already exists"}
	}
	return post, nil
}

func (s *blogService) UpdatePost(ctx context.Context, slug string, req models.PostRequest) (*models.Post, *ServiceError) {
	post, err := s.repo.FindBySlug(ctx, slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("Post not found")
	}
	if err != nil {
		logger.Error(ctx, "Failed to fetch post", err)
		return nil, internal("Failed to fetch post")
	}
	applyPostRequest(post, req)
	if err := s.repo.Update(ctx, post); err != nil {
		logger.Error(ctx, "Failed to update post", err)
		return nil, internal("Failed to update post")
	}
	return post, nil
}

// AddComment approves staff comments straight away; everyone else's wait
// for moderation.
func (s *blogService) AddComment(ctx context.Context, slug string, user *models.User, req models.CommentRequest) (*models.Comment, string, *ServiceError) {
	post, svcErr := s.findVisible(ctx, slug, user)
	if svcErr != nil {
		return nil, "", svcErr
	}

	comment := &models.Comment{
		PostID: post.ID,
		Name:   strings.TrimSpace(req.Name),
		Email:  strings.TrimSpace(req.Email),
		Body:   strings.TrimSpace(req.Body),
	}
	if user != nil {
		comment.UserID = user.ID
		comment.Approved = user.IsStaff
	}

	if err := s.repo.CreateComment(ctx, comment); err != nil {
		logger.Error(ctx, "Failed to create comment", err)
		return nil, "", internal("Failed to post comment")
	}
	if s.metrics != nil {
		_ = s.metrics.RecordCount(ctx, aws_pkg.MetricCommentsPosted, nil)
	}

	if comment.Approved {
		return comment, "Thank you for your comment.", nil
	}
	return comment, "Your comment it's been reviewed.", nil
}
