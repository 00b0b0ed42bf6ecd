package domain

// SessionStatus enumerates the session state machine variants.
type SessionStatus string

const (
	StatusUnauthenticated SessionStatus = "unauthenticated"
	StatusVerifying       SessionStatus = "verifying"
	StatusAuthenticated   SessionStatus = "authenticated"
)

// SessionState is the tagged union exposed to presentation components.
// Profile is non-nil exactly when Status is StatusAuthenticated.
type SessionState struct {
	Status  SessionStatus    `json:"status"`
	Profile *CustomerProfile `json:"profile,omitempty"`
}

// LoginFailure classifies why a login attempt was rejected so the caller
// can translate it into user-facing text.
type LoginFailure string

const (
	FailureNone        LoginFailure = ""
	FailureRejected    LoginFailure = "rejected"    // identity service refused the credentials
	FailureUnavailable LoginFailure = "unavailable" // identity service unreachable
	FailureSuperseded  LoginFailure = "superseded"  // session changed while the login was in flight
)

// LoginResult is the structured outcome of a login attempt. Failures are
// values, not errors; the session layer never panics on bad credentials.
type LoginResult struct {
	OK      bool             `json:"ok"`
	Failure LoginFailure     `json:"failure,omitempty"`
	Message string           `json:"message,omitempty"`
	Profile *CustomerProfile `json:"profile,omitempty"`
}
