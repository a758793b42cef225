package main

import "codecourse/internal/cli"

func main() {
	cli.Execute()
}
