package main

import (
	"Tuder/cmd"
)

func main() {
	cmd.Execute()
}
