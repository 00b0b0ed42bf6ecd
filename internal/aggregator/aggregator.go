// Package aggregator builds the CustomerProfile aggregate out of the loyalty
// and delivery backends. A failure in either source degrades that source's
// field instead of aborting the aggregation; only the identity record, which
// the caller supplies, is load-bearing.
package aggregator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/errgroup"

	"github.com/premiumclub/portal/internal/apperr"
	"github.com/premiumclub/portal/internal/domain"
	"github.com/premiumclub/portal/internal/logger"
	"github.com/premiumclub/portal/internal/serviceclient"
)

var sourceFailures = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "aggregate_source_failures_total",
		Help: "Aggregation lookups that fell back to a default value",
	},
	[]string{"source"},
)

const defaultDescription = "Paquete de Bienvenida Premium"

// defaultContents is shipped when the delivery service omits the content
// list, mirroring what the package physically contains.
var defaultContents = []string{
	"Sanduchera eléctrica de regalo",
	"Tarjeta de Cliente Premium",
	"Cupón de 15% descuento en primera compra",
	"Guía de beneficios exclusivos",
	"Sorpresa especial",
}

// Aggregator fans out to the loyalty and delivery services and merges the
// results with an identity record into one CustomerProfile.
type Aggregator struct {
	loyalty  *serviceclient.Client
	delivery *serviceclient.Client
	sanitize *bluemonday.Policy
}

func New(loyalty, delivery *serviceclient.Client) *Aggregator {
	return &Aggregator{
		loyalty:  loyalty,
		delivery: delivery,
		// Upstream free text is displayed verbatim by the dashboard, so
		// anything that looks like markup is stripped on the way in.
		sanitize: bluemonday.StrictPolicy(),
	}
}

// Aggregate merges identity with the loyalty and delivery lookups. The two
// lookups run concurrently and both settle before the aggregate is returned.
// On loyalty failure the last-known points from prev (or 0) are kept; on
// delivery failure the package is nil. Aggregate itself never fails.
func (a *Aggregator) Aggregate(ctx context.Context, identity domain.Identity, prev *domain.CustomerProfile) domain.CustomerProfile {
	points := 0
	if prev != nil {
		points = prev.LoyaltyPoints
	}
	var pkg *domain.WelcomePackage

	var g errgroup.Group
	g.Go(func() error {
		p, err := a.fetchPoints(ctx, identity.Email)
		if err != nil {
			sourceFailures.WithLabelValues("loyalty").Inc()
			logger.Log.Warn("loyalty lookup failed, keeping last known points",
				"email", identity.Email, "error", err)
			return nil
		}
		points = p
		return nil
	})
	g.Go(func() error {
		p, err := a.fetchPackage(ctx, identity)
		if err != nil {
			sourceFailures.WithLabelValues("delivery").Inc()
			logger.Log.Warn("delivery lookup failed, dropping welcome package",
				"email", identity.Email, "error", err)
			return nil
		}
		pkg = p
		return nil
	})
	// Goroutines absorb their own failures, so Wait cannot return an error.
	_ = g.Wait()

	return domain.CustomerProfile{
		Identity:       identity,
		LoyaltyPoints:  points,
		WelcomePackage: pkg,
	}
}

func (a *Aggregator) fetchPoints(ctx context.Context, email string) (int, error) {
	raw, err := a.loyalty.Do(ctx, http.MethodGet, "/points/"+url.PathEscape(email), nil)
	if err != nil {
		return 0, err
	}
	return pointsFromJSON(raw), nil
}

// packageRecord mirrors the delivery service payload with its historical
// field-name variants.
type packageRecord struct {
	TrackingNumber string `json:"trackingNumber"`
	Tracking       string `json:"tracking"`
	ID             string `json:"id"`

	Estado string `json:"estado"`
	Status string `json:"status"`
	State  string `json:"state"`

	FechaCreacion string `json:"fechaCreacion"`
	CreatedDate   string `json:"createdDate"`

	Descripcion string `json:"descripcion"`
	Description string `json:"description"`

	Contenido []string `json:"contenido"`
	Contents  []string `json:"contents"`
}

// fetchPackage returns nil without error when the delivery service reports
// no package for the customer.
func (a *Aggregator) fetchPackage(ctx context.Context, identity domain.Identity) (*domain.WelcomePackage, error) {
	raw, err := a.delivery.Do(ctx, http.MethodGet, "/packages/"+url.PathEscape(identity.Email), nil)
	if err != nil {
		var httpErr *apperr.HTTPError
		if errors.As(err, &httpErr) && httpErr.Status == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record packageRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("cannot decode package response: %w", err)
	}

	tracking := firstNonEmpty(record.TrackingNumber, record.Tracking, record.ID)
	if tracking == "" {
		return nil, nil
	}

	description := firstNonEmpty(record.Descripcion, record.Description, defaultDescription)
	created := firstNonEmpty(record.FechaCreacion, record.CreatedDate)
	if created == "" {
		created = time.Now().Format("2006-01-02")
	}
	contents := record.Contenido
	if len(contents) == 0 {
		contents = record.Contents
	}
	if len(contents) == 0 {
		contents = defaultContents
	}
	clean := make([]string, len(contents))
	for i, item := range contents {
		clean[i] = a.sanitize.Sanitize(item)
	}

	return &domain.WelcomePackage{
		TrackingNumber: tracking,
		State:          translateState(firstNonEmpty(record.Estado, record.Status, record.State)),
		CreatedDate:    created,
		Description:    a.sanitize.Sanitize(description),
		Contents:       clean,
		Address:        identity.Address,
		City:           identity.City,
		PostalCode:     identity.PostalCode,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
