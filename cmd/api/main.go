package main

import (
	"fmt"
	"os"

	"github.com/tickethall/ticket-reservation-system/internal/app"
)

func main() {
	err := app.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
