package main

import (
	"github.com/RyanBlaney/scorealign/cmd/scorealign/cmd"
)

func main() {
	cmd.Execute()
}
