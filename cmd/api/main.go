package main

import (
	"fmt"
	"os"

	"github.com/cankorkmaz/cinegrid/internal/app"
	"github.com/joho/godotenv"
)

func main() {
	// missing .env is fine, flags and real env vars still apply
	_ = godotenv.Load()

	err := app.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
