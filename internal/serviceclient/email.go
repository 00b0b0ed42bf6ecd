package serviceclient

import (
	"context"
	"net/http"
)

// EmailClient wraps the generic client with the email service contract.
// Welcome emails are best-effort: callers tolerate every failure here.
type EmailClient struct {
	client *Client
}

func NewEmailClient(client *Client) *EmailClient {
	return &EmailClient{client: client}
}

type welcomeEmailRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"nombre"`
}

// SendWelcome asks the email service to deliver the sign-up welcome email.
func (ec *EmailClient) SendWelcome(ctx context.Context, email, firstName string) error {
	body := welcomeEmailRequest{Email: email, FirstName: firstName}
	_, err := ec.client.Do(ctx, http.MethodPost, "/emails/send-welcome", body)
	return err
}
