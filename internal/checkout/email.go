package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
)

// OrderEmail is the flat field set handed to the relay template.
type OrderEmail struct {
	CustomerName string `json:"customer_name"`
	Total        string `json:"total"`
	Method       string `json:"payment_method"`
	Timestamp    string `json:"timestamp"`
	Items        string `json:"items"`
	ToEmail      string `json:"to_email"`
}

type Mailer interface {
	Send(ctx context.Context, e OrderEmail) error
}

var ErrRelayUnavailable = errors.New("email relay unavailable")

// RelayClient talks to an EmailJS-style relay. Sends happen once, with no
// retry; the circuit breaker only makes repeated failures fail fast.
type RelayClient struct {
	baseURL    string
	serviceID  string
	templateID string
	userID     string
	client     *http.Client
	breaker    *gobreaker.CircuitBreaker[*http.Response]
}

func NewRelayClient(baseURL, serviceID, templateID, userID string) *RelayClient {
	settings := gobreaker.Settings{
		Name:     "email-relay",
		Interval: 60 * time.Second,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
		},
	}

	return &RelayClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceID:  serviceID,
		templateID: templateID,
		userID:     userID,
		client:     &http.Client{Timeout: 5 * time.Second},
		breaker:    gobreaker.NewCircuitBreaker[*http.Response](settings),
	}
}

type relayRequest struct {
	ServiceID      string         `json:"service_id"`
	TemplateID     string         `json:"template_id"`
	UserID         string         `json:"user_id"`
	TemplateParams map[string]any `json:"template_params"`
}

func (c *RelayClient) Send(ctx context.Context, e OrderEmail) error {
	body, err := json.Marshal(relayRequest{
		ServiceID:  c.serviceID,
		TemplateID: c.templateID,
		UserID:     c.userID,
		TemplateParams: map[string]any{
			"customer_name":  e.CustomerName,
			"total":          e.Total,
			"payment_method": e.Method,
			"timestamp":      e.Timestamp,
			"items":          e.Items,
			"to_email":       e.ToEmail,
		},
	})
	if err != nil {
		return err
	}

	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1.0/email/send", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			return nil, fmt.Errorf("%w: status=%d", ErrRelayUnavailable, resp.StatusCode)
		}
		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			return ErrRelayUnavailable
		}
		return err
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return nil
}

// NopMailer is used when no relay is configured; sends succeed silently.
type NopMailer struct{}

func (NopMailer) Send(ctx context.Context, e OrderEmail) error { return nil }
