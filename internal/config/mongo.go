package config

import "time"

type Mongo struct {
	URI      string `env:"MONGO_URI,required"`
	Database string `env:"MONGO_DATABASE,required"`

	MaxPoolSize    uint64        `env:"MONGO_MAX_POOL_SIZE" envDefault:"100"`
	MinPoolSize    uint64        `env:"MONGO_MIN_POOL_SIZE" envDefault:"10"`
	ConnectTimeout time.Duration `env:"MONGO_CONNECT_TIMEOUT" envDefault:"10s"`
	SelectTimeout  time.Duration `env:"MONGO_SELECT_TIMEOUT" envDefault:"5s"`
}
