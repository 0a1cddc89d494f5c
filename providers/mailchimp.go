package providers

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// MailchimpProvider implements NewsletterProvider using the Mailchimp Marketing API.
type MailchimpProvider struct {
	apiKey     string
	listID     string
	baseURL    string
	httpClient *http.Client
}

// NewMailchimpProvider builds a client for the data center named by server (e.g. "us21").
func NewMailchimpProvider(apiKey, server, listID string) *MailchimpProvider {
	return &MailchimpProvider{
		apiKey:  apiKey,
		listID:  listID,
		baseURL: fmt.Sprintf("https://%s.api.mailchimp.com/3.0", server),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// WithBaseURL points the provider at another API root.
func (m *MailchimpProvider) WithBaseURL(baseURL string) *MailchimpProvider {
	m.baseURL = strings.TrimSuffix(baseURL, "/")
	return m
}

type mailchimpMember struct {
	EmailAddress string `json:"email_address,omitempty"`
	Status       string `json:"status"`
}

type mailchimpPing struct {
	HealthStatus string `json:"health_status"`
}

// APIError is returned for non-2xx responses.
type APIError struct {
	Status int
	Title  string
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mailchimp API error (status %d): %s: %s", e.Status, e.Title, e.Detail)
}

func (m *MailchimpProvider) Subscribe(ctx context.Context, email string) error {
	body := mailchimpMember{EmailAddress: email, Status: "subscribed"}
	if err := m.doRequest(ctx, http.MethodPost, "/lists/"+m.listID+"/members", body, nil); err != nil {
		return fmt.Errorf("mailchimp Subscribe: %w", err)
	}
	return nil
}

func (m *MailchimpProvider) Unsubscribe(ctx context.Context, email string) error {
	path := fmt.Sprintf("/lists/%s/members/%s", m.listID, SubscriberHash(email))
	if err := m.doRequest(ctx, http.MethodPatch, path, mailchimpMember{Status: "unsubscribed"}, nil); err != nil {
		return fmt.Errorf("mailchimp Unsubscribe: %w", err)
	}
	return nil
}

func (m *MailchimpProvider) Ping(ctx context.Context) (string, error) {
	var resp mailchimpPing
	if err := m.doRequest(ctx, http.MethodGet, "/ping", nil, &resp); err != nil {
		return "", fmt.Errorf("mailchimp Ping: %w", err)
	}
	return resp.HealthStatus, nil
}

// SubscriberHash is the member id Mailchimp derives from an address.
func SubscriberHash(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return hex.EncodeToString(sum[:])
}

func (m *MailchimpProvider) doRequest(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, m.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth("anystring", m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var problem struct {
			Title  string `json:"title"`
			Detail string `json:"detail"`
		}
		if json.Unmarshal(respBytes, &problem) == nil {
			apiErr.Title, apiErr.Detail = problem.Title, problem.Detail
		}
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(respBytes, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
