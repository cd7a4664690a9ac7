package config

// OrdersConfig holds order orchestration configuration
type OrdersConfig struct {
	// LotSizeThreshold overrides the persisted LOT_SIZE_THRESHOLD value when
	// set (> 0). The persisted value still wins for runtime changes made
	// through the config API.
	LotSizeThreshold int `mapstructure:"lot_size_threshold" validate:"min=0"`
}
