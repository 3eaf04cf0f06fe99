package main

import (
	"os"

	"horse.fit/llm-news/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
