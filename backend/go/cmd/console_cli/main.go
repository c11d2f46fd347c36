package main

import "VectorConsole/backend/go/cmd/console_cli/cmd"

func main() {
	cmd.Execute()
}
