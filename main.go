package main

import (
	"os"

	"github.com/linkforge/linkforge/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
