package configs

// Engine configures the campaign engine's own identity.
type Engine struct {
	Account string `env:"ACCOUNT" envDefault:"crowdfunding"`
}
