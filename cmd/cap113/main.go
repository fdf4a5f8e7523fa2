package main

import "cap113/internal/cli"

func main() {
	cli.Execute()
}
