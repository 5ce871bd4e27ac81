// chatwidget is a terminal chat widget for a remote chat endpoint.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/linanwx/chatwidget/cmd"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, "warning: failed to load .env:", err)
	}
	cmd.Execute()
}
