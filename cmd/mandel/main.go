package main

import "github.com/marben/mandel_zoom/internal/cli"

func main() {
	cli.Execute()
}
