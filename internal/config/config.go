package config

import (
	"fmt"
	"os"

	"github.com/creasty/defaults"
)

type GlobalConfig struct {
	Server   Server   `mapstructure:",squash"`
	Log      Log      `mapstructure:",squash"`
	Trace    Trace    `mapstructure:",squash"`
	PubChem  PubChem  `mapstructure:",squash"`
	Cache    Cache    `mapstructure:",squash"`
	Redis    Redis    `mapstructure:",squash"`
	Database Database `mapstructure:",squash"`
	Store    Store    `mapstructure:",squash"`
	Batch    Batch    `mapstructure:",squash"`
	Output   Output   `mapstructure:",squash"`
}

var config = &GlobalConfig{}

func init() {
	if err := defaults.Set(config); err != nil {
		fmt.Printf("set default err: %+v", err)
		os.Exit(1)
	}
}

func Global() *GlobalConfig {
	return config
}
