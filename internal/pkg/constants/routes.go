package constants

// Static route constants
const (
	APIRoute    = "/api"
	APIv1Route  = "/v1"
	HealthRoute = "/health"

	SessionsRoute = "/sessions"
	SessionRoute  = "/session"
	StepsRoute    = "/steps"
	CheckoutRoute = "/checkout"
	AssetsRoute   = "/assets"
)
