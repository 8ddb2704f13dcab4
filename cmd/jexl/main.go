package main

import (
	"fmt"
	"os"

	"github.com/jexl-go/jexl/cmd/jexl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
