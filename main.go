package main

import (
	"github.com/joho/godotenv"

	"github.com/cabouelw/codewise.ai-sub000/cmd"
)

func main() {
	// A missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()
	cmd.Execute()
}
