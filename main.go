package main

import (
	"os"

	"github.com/seralba/notedex/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
