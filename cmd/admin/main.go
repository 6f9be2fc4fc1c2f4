package main

import (
	"os"

	"github.com/yigit/studentperf/internal/pkg/logger"
)

func main() {
	cli := &commandLine{out: os.Stdout}
	err := cli.run(os.Args[1:])
	cli.close()
	if err != nil {
		logger.Error().Err(err).Msg("admin command failed")
		os.Exit(1)
	}
}
