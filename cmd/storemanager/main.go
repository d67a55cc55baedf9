// Command storemanager is the interactive console for the store's products and users.
package main

import (
	"context"
	"os"
)

func main() {
	if err := RootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
