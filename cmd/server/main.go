// Command server runs the feedline HTTP API.
package main

import (
	"context"
	"log"

	"github.com/dsmolkin/feedline/internal/app"
)

func main() {
	if err := app.Run(context.Background()); err != nil {
		log.Fatal(err)
	}
}
