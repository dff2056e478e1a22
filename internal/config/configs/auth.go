package configs

// Auth configures bearer token verification. The token subject is the
// caller's account. Without a secret every authenticated route answers 401.
type Auth struct {
	JWTSecret string `env:"JWT_SECRET"`
	Issuer    string `env:"ISSUER"`
}
