package main

import "github.com/pfrederiksen/bjcp-calendar/internal/cli"

func main() {
	cli.Execute()
}
