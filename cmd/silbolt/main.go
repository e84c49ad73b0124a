package main

import "github.com/mvp-joe/silbolt/internal/cli"

func main() {
	cli.Execute()
}
