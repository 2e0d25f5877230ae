// Command stagecode converts stages between level files and stage codes and
// runs them headless.
package main

import (
	"context"
	"os"

	log "github.com/sirupsen/logrus"
)

func main() {
	if err := newApp(os.Stdout).Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
