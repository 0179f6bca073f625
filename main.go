package main

import (
	"log"
	"os"

	"github.com/jmillet/stockroom/app"
)

func main() {
	kernel, err := app.New() // loads .env automatically
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}
	if err := kernel.Run(); err != nil {
		_ = kernel.Logger().Sync()
		os.Exit(1)
	}
}
