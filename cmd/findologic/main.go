package main

import (
	"os"

	"github.com/r9s-ai/findologic-api-go/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
