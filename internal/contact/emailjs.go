package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultEmailJSEndpoint is the EmailJS REST send endpoint.
const DefaultEmailJSEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

// EmailJSRelay posts messages to the EmailJS REST API using a service and
// template configured in the EmailJS dashboard.
type EmailJSRelay struct {
	Endpoint   string
	ServiceID  string
	TemplateID string
	PublicKey  string
	Client     *http.Client
}

type emailJSRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
}

func (r *EmailJSRelay) Send(ctx context.Context, msg Message) error {
	if r.ServiceID == "" || r.TemplateID == "" || r.PublicKey == "" {
		return fmt.Errorf("emailjs: service, template and public key must be configured")
	}
	endpoint := r.Endpoint
	if endpoint == "" {
		endpoint = DefaultEmailJSEndpoint
	}
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}

	body, err := json.Marshal(emailJSRequest{
		ServiceID:  r.ServiceID,
		TemplateID: r.TemplateID,
		UserID:     r.PublicKey,
		TemplateParams: map[string]string{
			FieldName:    msg.Fields.Name,
			FieldEmail:   msg.Fields.Email,
			FieldSubject: msg.Fields.Subject,
			FieldMessage: msg.Fields.Message,
		},
	})
	if err != nil {
		return fmt.Errorf("emailjs: encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("emailjs: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("emailjs: sending: %w", err)
	}
	defer resp.Body.Close()

	text, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("emailjs: status %d: %s", resp.StatusCode, strings.TrimSpace(string(text)))
	}
	return nil
}
