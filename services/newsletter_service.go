package services

import (
	"context"
	"net/http"
	"strings"

	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/logger"
	aws_pkg "github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/pkg/aws"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/providers"
	"go.uber.org/zap"
)

type NewsletterService interface {
	Subscribe(ctx context.Context, email string) (string, *ServiceError)
	Unsubscribe(ctx context.Context, email string) (string, *ServiceError)
	Ping(ctx context.Context) (string, *ServiceError)
}

type newsletterService struct {
	provider providers.NewsletterProvider
	metrics  aws_pkg.MetricsRecorder
}

func NewNewsletterService(provider providers.NewsletterProvider, metrics aws_pkg.MetricsRecorder) NewsletterService {
	return &newsletterService{provider: provider, metrics: metrics}
}

func upstream(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusBadGateway, Message: msg}
}

func (s *newsletterService) Subscribe(ctx context.Context, email string) (string, *ServiceError) {
	email = strings.TrimSpace(email)
	if err := s.provider.Subscribe(ctx, email); err != nil {
		logger.Error(ctx, "Newsletter subscribe failed", err)
		return "", upstream("Oops, something went wrong.")
	}
	if s.metrics != nil {
		_ = s.metrics.RecordCount(ctx, aws_pkg.MetricNewsletterSignups, nil)
	}
	logger.Info(ctx, "Newsletter subscription", zap.String("subscriber", providers.SubscriberHash(email)))
	return "Yay, you have been successfully subscribed to our mailing list.", nil
}

func (s *newsletterService) Unsubscribe(ctx context.Context, email string) (string, *ServiceError) {
	if err := s.provider.Unsubscribe(ctx, strings.TrimSpace(email)); err != nil {
		logger.Error(ctx, "Newsletter unsubscribe failed", err)
		return "", upstream("Oops, something went wrong.")
	}
	return "You have been successfully unsubscribed from our mailing list.", nil
}

func (s *newsletterService) Ping(ctx context.Context) (string, *ServiceError) {
	status, err := s.provider.Ping(ctx)
	if err != nil {
		logger.Warn(ctx, "Newsletter ping failed", zap.Error(err))
		return "", upstream("Newsletter provider unavailable")
	}
	return status, nil
}
