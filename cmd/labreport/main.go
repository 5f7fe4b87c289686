package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"lab-report-reader/internal/commands"
)

func main() {
	// .env is optional for the CLI
	_ = godotenv.Load()

	if err := commands.NewApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
