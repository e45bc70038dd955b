package main

import "apidash/internal/cli"

func main() {
	cli.Execute()
}
