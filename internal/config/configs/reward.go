package configs

// Reward holds the one-time construction parameters of the reward ledger.
// They only take effect the first time the ledger is initialised.
type Reward struct {
	Owner    string `env:"OWNER" envDefault:"deployer"`
	Name     string `env:"NAME" envDefault:"CrowdReward"`
	Symbol   string `env:"SYMBOL" envDefault:"CRWD"`
	Decimals uint8  `env:"DECIMALS" envDefault:"18"`
	// BootstrapMinter makes the owner hand the minter role to the engine
	// account on startup when no minter is set yet.
	BootstrapMinter bool `env:"BOOTSTRAP_MINTER" envDefault:"true"`
}
