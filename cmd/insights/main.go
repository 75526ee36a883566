package main

import (
	"os"

	"github.com/ibm-storage/go-insights-client/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:], app.Dependencies{Out: os.Stdout}))
}
