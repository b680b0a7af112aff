package main

import (
	"fmt"
	"os"

	"github.com/goliatone/go-contactform/cmd/cactat/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
