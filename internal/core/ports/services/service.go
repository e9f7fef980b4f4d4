package services

// ServiceContainer holds instances of all the application services.
// Handlers receive this rather than individual constructor wiring.
type ServiceContainer struct {
	Trip         TripSvcFacade
	User         UserSvcFacade
	Token        TokenSvcFacade
	GoogleOAuth  GoogleOAuthSvcFacade
	Chat         ChatSvcFacade
	ExchangeRate ExchangeRateSvcFacade
}
