// Package services holds the storefront's business logic. Services return
// *ServiceError so controllers can answer with the right status and message.
package services

import (
	"net/http"
)

// ServiceError is a typed error with an HTTP status code.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string { return e.Message }

func badRequest(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusBadRequest, Message: msg}
}

func notFound(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusNotFound, Message: msg}
}

func internal(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusInternalServerError, Message: msg}
}
