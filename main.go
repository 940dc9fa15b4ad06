package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/mquinones/prepterm/cmd"
)

func main() {
	// Optional .env for PREPTERM_DB and friends; absence is fine.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
