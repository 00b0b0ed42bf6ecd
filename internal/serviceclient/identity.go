package serviceclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/premiumclub/portal/internal/domain"
)

// IdentityClient wraps the generic client with the identity service contract:
// register, login (returns bearer credential + identity record) and the
// bearer-authenticated profile lookup.
type IdentityClient struct {
	client *Client
}

func NewIdentityClient(client *Client) *IdentityClient {
	return &IdentityClient{client: client}
}

// flexString accepts a JSON string or number. Legacy identity responses emit
// numeric ids where newer ones emit strings.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = flexString(n.String())
	return nil
}

// identityRecord mirrors the identity service payload including the legacy
// field-name variants still emitted by older deployments.
type identityRecord struct {
	ID    flexString `json:"id"`
	AltID flexString `json:"_id"`

	Nombre    string `json:"nombre"`
	FirstName string `json:"firstName"`
	Name      string `json:"name"`

	Apellido string `json:"apellido"`
	LastName string `json:"lastName"`

	Email string `json:"email"`

	Telefono string `json:"telefono"`
	Phone    string `json:"phone"`

	Direccion string `json:"direccion"`
	Address   string `json:"address"`

	Ciudad string `json:"ciudad"`
	City   string `json:"city"`

	CodigoPostal   string `json:"codigoPostal"`
	CodigoPostalV2 string `json:"codigo_postal"`
	Codigo         string `json:"codigo"`
	PostalCode     string `json:"postalCode"`

	FechaRegistro string `json:"fechaRegistro"`
	RegisteredAt  string `json:"registeredAt"`

	Genero string `json:"genero"`
	Gender string `json:"gender"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (r *identityRecord) toDomain() domain.Identity {
	return domain.Identity{
		ID:           firstNonEmpty(string(r.ID), string(r.AltID)),
		FirstName:    firstNonEmpty(r.Nombre, r.FirstName, r.Name),
		LastName:     firstNonEmpty(r.Apellido, r.LastName),
		Email:        r.Email,
		Phone:        firstNonEmpty(r.Telefono, r.Phone),
		Address:      firstNonEmpty(r.Direccion, r.Address),
		City:         firstNonEmpty(r.Ciudad, r.City),
		PostalCode:   firstNonEmpty(r.CodigoPostal, r.CodigoPostalV2, r.Codigo, r.PostalCode),
		RegisteredAt: firstNonEmpty(r.FechaRegistro, r.RegisteredAt),
		Gender:       firstNonEmpty(r.Genero, r.Gender),
	}
}

// profileEnvelope tolerates the three wrapping styles the identity service
// has used over time: {"cliente": {...}}, {"data": {...}} and a bare record.
type profileEnvelope struct {
	Cliente *identityRecord `json:"cliente"`
	Data    *identityRecord `json:"data"`
}

func decodeIdentity(raw []byte) (domain.Identity, error) {
	var envelope profileEnvelope
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if envelope.Cliente != nil {
			return envelope.Cliente.toDomain(), nil
		}
		if envelope.Data != nil {
			return envelope.Data.toDomain(), nil
		}
	}

	var bare identityRecord
	if err := json.Unmarshal(raw, &bare); err != nil {
		return domain.Identity{}, fmt.Errorf("cannot decode identity record: %w", err)
	}
	identity := bare.toDomain()
	if identity.ID == "" && identity.Email == "" {
		return domain.Identity{}, fmt.Errorf("identity response carries no customer record")
	}
	return identity, nil
}

type loginResponse struct {
	Token       string          `json:"token"`
	AccessToken string          `json:"accessToken"`
	Cliente     *identityRecord `json:"cliente"`
	Data        *identityRecord `json:"data"`
}

// Login posts the credentials and returns the bearer credential together
// with the identity record from the response.
func (ic *IdentityClient) Login(ctx context.Context, creds domain.Credentials) (string, domain.Identity, error) {
	raw, err := ic.client.Do(ctx, http.MethodPost, "/login", creds)
	if err != nil {
		return "", domain.Identity{}, err
	}

	var resp loginResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", domain.Identity{}, fmt.Errorf("cannot decode login response: %w", err)
	}

	token := firstNonEmpty(resp.Token, resp.AccessToken)
	if token == "" {
		return "", domain.Identity{}, fmt.Errorf("login response carries no credential")
	}

	record := resp.Cliente
	if record == nil {
		record = resp.Data
	}
	if record == nil {
		return "", domain.Identity{}, fmt.Errorf("login response carries no customer record")
	}
	return token, record.toDomain(), nil
}

// Register forwards a sign-up request. The identity service validates the
// fields; the portal does not duplicate those rules.
func (ic *IdentityClient) Register(ctx context.Context, reg domain.Registration) error {
	_, err := ic.client.Do(ctx, http.MethodPost, "/register", reg)
	return err
}

// Profile fetches the identity record for the stored credential.
func (ic *IdentityClient) Profile(ctx context.Context) (domain.Identity, error) {
	raw, err := ic.client.Do(ctx, http.MethodGet, "/profile", nil)
	if err != nil {
		return domain.Identity{}, err
	}
	return decodeIdentity(raw)
}
