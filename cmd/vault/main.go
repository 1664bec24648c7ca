package main

import (
	"log"

	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/cli"
	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/config"
)

func main() {
	cfg := config.LoadConfig()

	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer app.Close()

	app.Run()
}
