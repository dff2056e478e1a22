package configs

// Deploy describes the deployment record served to front ends.
type Deploy struct {
	Network            string `env:"NETWORK" envDefault:"local"`
	ChainID            string `env:"CHAIN_ID" envDefault:"0x539"`
	RewardTokenAddress string `env:"REWARD_TOKEN_ADDRESS" envDefault:"reward-ledger"`
}
