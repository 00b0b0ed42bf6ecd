package setup

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/premiumclub/portal/internal/aggregator"
	"github.com/premiumclub/portal/internal/config"
	"github.com/premiumclub/portal/internal/credstore"
	"github.com/premiumclub/portal/internal/handler"
	"github.com/premiumclub/portal/internal/kv"
	"github.com/premiumclub/portal/internal/logger"
	"github.com/premiumclub/portal/internal/serviceclient"
	"github.com/premiumclub/portal/internal/session"
)

const requestTimeout = 10 * time.Second

type Dependencies struct {
	Handler  *handler.Handler
	Sessions *session.Controller
	Config   *config.Config
}

// SetupDependencies wires one service client per backend around a shared
// credential store and hands them to the aggregation and session layers.
// Clients are constructed once and passed by reference; nothing here is a
// package-level singleton.
func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	store, err := kv.NewFileStore(filepath.Join(cfg.StateDir, "credentials.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize credential storage: %w", err)
	}
	creds := credstore.New(store)
	flags := kv.NewMemoryStore()

	httpClient := &http.Client{Timeout: requestTimeout}
	identityClient := serviceclient.New("identity", cfg.Services.Identity, creds, serviceclient.WithHTTPClient(httpClient))
	loyaltyClient := serviceclient.New("loyalty", cfg.Services.Loyalty, creds, serviceclient.WithHTTPClient(httpClient))
	deliveryClient := serviceclient.New("delivery", cfg.Services.Delivery, creds, serviceclient.WithHTTPClient(httpClient))

	identity := serviceclient.NewIdentityClient(identityClient)
	var email *serviceclient.EmailClient
	clients := []*serviceclient.Client{identityClient, loyaltyClient, deliveryClient}
	if cfg.Services.Email != "" {
		emailClient := serviceclient.New("email", cfg.Services.Email, creds, serviceclient.WithHTTPClient(httpClient))
		email = serviceclient.NewEmailClient(emailClient)
		clients = append(clients, emailClient)
	}

	agg := aggregator.New(loyaltyClient, deliveryClient)

	sessions := session.New(identity, email, agg, creds, flags,
		session.WithPollInterval(cfg.PollInterval()),
		session.WithNavigate(func(target string) {
			// Navigation is the routing collaborator's job; the portal only
			// records that the session asked for it.
			logger.Log.Info("session requested navigation", "target", target)
		}),
	)

	// Any 401 from any backend forces a logout.
	for _, client := range clients {
		client.OnAuthExpired(sessions.AuthExpired)
	}

	return &Dependencies{
		Handler:  handler.New(sessions),
		Sessions: sessions,
		Config:   cfg,
	}, nil
}
