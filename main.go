package main

import (
	"github.com/govdbot/govfuni/cmd"
	"github.com/govdbot/govfuni/logger"
)

func main() {
	logger.Init()
	defer logger.Sync()

	cmd.Execute()
}
