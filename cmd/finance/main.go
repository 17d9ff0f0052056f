package main

import (
	"os"

	"github.com/marcos-lima-dev/finance-app/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
