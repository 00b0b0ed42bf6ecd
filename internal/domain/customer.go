package domain

// Credentials are the login inputs forwarded verbatim to the identity service.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration holds the fields the identity service expects on sign-up.
type Registration struct {
	FirstName  string `json:"nombre"`
	LastName   string `json:"apellido"`
	Email      string `json:"email"`
	Phone      string `json:"telefono"`
	Address    string `json:"direccion"`
	City       string `json:"ciudad"`
	PostalCode string `json:"codigoPostal"`
	Gender     string `json:"genero"`
	Password   string `json:"password"`
}

// Identity is the record owned by the identity service. It is required for
// an aggregate to exist at all.
type Identity struct {
	ID           string `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	City         string `json:"city"`
	PostalCode   string `json:"postalCode"`
	RegisteredAt string `json:"registeredAt"`
	Gender       string `json:"gender"`
}

// PackageState is the four-stage delivery lifecycle. This layer only mirrors
// the upstream value; labels it does not recognize pass through unchanged.
type PackageState string

const (
	PackagePending   PackageState = "pending"
	PackagePreparing PackageState = "preparing"
	PackageInTransit PackageState = "in_transit"
	PackageDelivered PackageState = "delivered"
)

// WelcomePackage is the delivery-tracked signup bonus. Address fields come
// from the identity record, not the delivery service.
type WelcomePackage struct {
	TrackingNumber string       `json:"trackingNumber"`
	State          PackageState `json:"state"`
	CreatedDate    string       `json:"createdDate"`
	Description    string       `json:"description"`
	Contents       []string     `json:"contents"`
	Address        string       `json:"address"`
	City           string       `json:"city"`
	PostalCode     string       `json:"postalCode"`
}

// CustomerProfile is the aggregate of identity + loyalty + delivery data.
// It is rebuilt as a whole on every refresh, never mutated field by field.
type CustomerProfile struct {
	Identity
	LoyaltyPoints  int             `json:"loyaltyPoints"`
	WelcomePackage *WelcomePackage `json:"welcomePackage"`
}
