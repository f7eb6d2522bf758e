package main

import "cargo-repin/internal/cli"

func main() {
	cli.Execute()
}
