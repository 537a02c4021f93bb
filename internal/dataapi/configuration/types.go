package configuration

type CosmosConfig struct {
	Endpoint           string
	Key                string
	Database           string
	Collection         string
	PreferredLocations []string
}

type ApiConfiguration struct {
	HttpPort    uint16
	MetricsPort uint16

	// Environment selects the partition strategy; "STAGING" runs every query
	// cross-partition.
	Environment string

	MaxItemsPerResponse int
	CountCacheSize      int

	Cosmos CosmosConfig
}
