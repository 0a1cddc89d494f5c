package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/logger"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/models"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/repository"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/sender"
	"go.uber.org/zap"
)

const featuredProductLimit = 8

// HomePage is the landing page content.
type HomePage struct {
	FAQs     []models.FAQ     `json:"faqs"`
	Featured []models.Product `json:"featured"`
}

type HomeService interface {
	Index(ctx context.Context) (*HomePage, *ServiceError)
	Contact(ctx context.Context, req models.ContactRequest) (string, *ServiceError)
}

type homeService struct {
	repo       repository.HomeRepository
	catalog    CatalogService
	email      sender.EmailSender
	staffEmail string
}

func NewHomeService(repo repository.HomeRepository, catalog CatalogService, email sender.EmailSender, staffEmail string) HomeService {
	return &homeService{repo: repo, catalog: catalog, email: email, staffEmail: staffEmail}
}

func (s *homeService) Index(ctx context.Context) (*HomePage, *ServiceError) {
	faqs, err := s.repo.ListActiveFAQs(ctx)
	if err != nil {
		logger.Error(ctx, "Failed to list FAQs", err)
		return nil, internal("Failed to load page")
	}
	featured, svcErr := s.catalog.FeaturedProducts(ctx, featuredProductLimit)
	if svcErr != nil {
		return nil, svcErr
	}
	if faqs == nil {
		faqs = []models.FAQ{}
	}
	if featured == nil {
		featured = []models.Product{}
	}
	return &HomePage{FAQs: faqs, Featured: featured}, nil
}

// Contact stores the message and lets staff know about it. The message is
// kept even if the notification cannot be sent.
func (s *homeService) Contact(ctx context.Context, req models.ContactRequest) (string, *ServiceError) {
	msg := &models.ContactMessage{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Content: strings.TrimSpace(req.Content),
	}
	if err := s.repo.CreateContactMessage(ctx, msg); err != nil {
		logger.Error(ctx, "Failed to store contact message", err)
		return "", internal("Failed to send your message. Please try again later.")
	}

	if s.email != nil && s.staffEmail != "" {
		subject := fmt.Sprintf("New contact message from %s", msg.Name)
		body := fmt.Sprintf("From: %s <%s>\n\n%s\n", msg.Name, msg.Email, msg.Content)
		if _, err := s.email.SendEmail(ctx, s.staffEmail, subject, body); err != nil {
			logger.Warn(ctx, "Failed to notify staff of contact message", zap.Uint("message_id", msg.ID), zap.Error(err))
		}
	}
	return "Thank you for your message. We will get back to you soon.", nil
}
