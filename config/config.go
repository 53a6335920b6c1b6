package config

import (
	"colend/core"

	configUtil "github.com/fox-one/pkg/config"
)

// Load load config file
func Load(configFile string, config *core.Config) error {
	configUtil.AutomaticLoadEnv("COLEND")
	if err := configUtil.LoadYaml(configFile, config); err != nil {
		return err
	}

	config.DefaultLiquidation()

	return nil
}
