package repositories

// RepositoryProvider bundles every repository an application instance
// needs, so service wiring takes one argument instead of many.
type RepositoryProvider struct {
	Store            Storage
	UserRepo         UserRepository
	ExchangeRateRepo ExchangeRateRepository
	ConversationRepo ConversationRepository
}
