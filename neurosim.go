package main

import (
	"github.com/neurosim-cloud/neurosim/cmd"
	"github.com/neurosim-cloud/neurosim/pkg/env"
	"github.com/neurosim-cloud/neurosim/pkg/log"
)

func main() {
	if err := env.Process(); err != nil {
		log.Fatal("environment failure", "error", err)
	}

	if err := cmd.Execute(); err != nil {
		log.Fatal("neurosim failure", "error", err)
	}
}
