package main

import (
	"os"

	"github.com/logbie/wfl-sub001/cmd/wfl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
