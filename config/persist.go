package config

import (
	"errors"

	"github.com/spf13/viper"
)

// Write saves the in-memory configuration, creating the file if it does not exist yet.
func Write() error {
	err := viper.WriteConfig()

	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return viper.SafeWriteConfig()
	}

	return err
}

// Persist sets key to value and saves the configuration.
func Persist(key string, value any) error {
	viper.Set(key, value)
	return Write()
}
