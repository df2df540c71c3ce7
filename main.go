package main

import (
	"os"

	"github.com/madan-d/classmos/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
