package main

import (
	"github.com/neuronlabs/tvb/cmd/tvb/cmd"
)

func main() {
	cmd.Execute()
}
