package config

// Node — идентичность узла и адреса доверенных посредников сети.
type Node struct {
	Address    string `env:"NODE_ADDRESS,notEmpty"`
	PubKeyRing string `env:"NODE_PUB_KEY_RING,notEmpty" json:"-"`

	ArbitratorAddresses []string `env:"NODE_ARBITRATOR_ADDRESSES" envSeparator:","`
	MediatorAddresses   []string `env:"NODE_MEDIATOR_ADDRESSES" envSeparator:","`

	VersionNr       string `env:"NODE_VERSION_NR" envDefault:"1.9.15"`
	ProtocolVersion int    `env:"NODE_PROTOCOL_VERSION" envDefault:"3"`

	RelayURL   string `env:"NODE_RELAY_URL" envDefault:"http://localhost:8091"`
	RelayToken string `env:"NODE_RELAY_TOKEN" json:"-"`
}
