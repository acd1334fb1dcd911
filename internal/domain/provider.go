package domain

// ProviderConfig is the administrative record selecting and ordering rate providers.
type ProviderConfig struct {
	Name     string
	Priority int
	Active   bool
}
