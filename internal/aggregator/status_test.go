package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/premiumclub/portal/internal/domain"
)

func TestTranslateState(t *testing.T) {
	tests := []struct {
		label string
		want  domain.PackageState
	}{
		{"pendiente", domain.PackagePending},
		{"PENDIENTE", domain.PackagePending},
		{"pending", domain.PackagePending},
		{"preparando", domain.PackagePreparing},
		{"En Preparación", domain.PackagePreparing},
		{"en preparacion", domain.PackagePreparing},
		{"En tránsito", domain.PackageInTransit},
		{"en transito", domain.PackageInTransit},
		{"in_transit", domain.PackageInTransit},
		{"shipped", domain.PackageInTransit},
		{"enviado", domain.PackageInTransit},
		{"Entregado", domain.PackageDelivered},
		{"delivered", domain.PackageDelivered},
		{" entregado ", domain.PackageDelivered},
		{"", domain.PackagePending},
		// Unknown labels pass through untouched instead of erroring
		{"devuelto", domain.PackageState("devuelto")},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, translateState(tt.label))
		})
	}
}
