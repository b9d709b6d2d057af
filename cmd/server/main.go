// Command server runs the recipes API.
package main

import (
	"fmt"
	"os"

	"github.com/rafacorp/recipes/server"
)

func main() {
	s, err := server.New(server.NewConfig())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := s.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
