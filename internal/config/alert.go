package config

type Alert struct {
	// LowStockThreshold is the remaining stock level at or below which a
	// stock reservation event triggers a low-stock warning.
	LowStockThreshold int `env:"ALERT_LOW_STOCK_THRESHOLD" envDefault:"5"`
}
