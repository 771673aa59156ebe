// Package main is the entry point for bavarder.
package main

import (
	"github.com/bavarder-cli/bavarder/cmd"
	"github.com/bavarder-cli/bavarder/config"
	"github.com/bavarder-cli/bavarder/internal/cache"
	"github.com/bavarder-cli/bavarder/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	// Expired responses of Lua responders.
	go cache.CollectGarbage()

	cmd.Execute()
}
