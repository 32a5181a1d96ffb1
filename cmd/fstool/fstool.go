package main

import (
	"math/rand"
	"os"
	"time"

	"github.com/jmrbcu/fstool/internal/fstool/cmd"
)

func main() {
	rand.New(rand.NewSource(time.Now().UnixNano()))

	command := cmd.NewDefaultFSToolCommand()
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}
