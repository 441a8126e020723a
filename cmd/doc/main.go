package main

import "github.com/emrgen/notion/cmd"

func main() {
	cmd.Execute()
}
