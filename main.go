package main

import "github.com/s4sachin/dynamic-form-builder/internal/cli"

func main() {
	cli.Execute()
}
