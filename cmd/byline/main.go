package main

import (
	"os"

	"horse.fit/byline/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
