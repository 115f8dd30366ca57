package main

import (
	"careerly/cmd/cmd"
	"careerly/internal/logger"
)

func main() {
	logger.Init()
	cmd.Execute()
}
