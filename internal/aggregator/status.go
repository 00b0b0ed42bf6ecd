package aggregator

import (
	"strings"

	"github.com/premiumclub/portal/internal/domain"
)

// stateLabels translates the labels the delivery service actually emits onto
// the four-stage enum. Lookups are case-insensitive; both accented and
// unaccented Spanish spellings appear because upstream is inconsistent.
var stateLabels = map[string]domain.PackageState{
	"pendiente": domain.PackagePending,
	"pending":   domain.PackagePending,

	"preparando":     domain.PackagePreparing,
	"en preparacion": domain.PackagePreparing,
	"en preparación": domain.PackagePreparing,
	"preparing":      domain.PackagePreparing,

	"en transito": domain.PackageInTransit,
	"en tránsito": domain.PackageInTransit,
	"in transit":  domain.PackageInTransit,
	"in_transit":  domain.PackageInTransit,
	"enviado":     domain.PackageInTransit,
	"shipped":     domain.PackageInTransit,

	"entregado": domain.PackageDelivered,
	"delivered": domain.PackageDelivered,
}

// translateState maps an upstream label to the canonical state. Labels not
// in the table pass through unchanged rather than raising an error, so a new
// upstream state degrades to display-as-is instead of breaking aggregation.
func translateState(label string) domain.PackageState {
	if label == "" {
		return domain.PackagePending
	}
	if state, ok := stateLabels[strings.ToLower(strings.TrimSpace(label))]; ok {
		return state
	}
	return domain.PackageState(label)
}
