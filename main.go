package main

import "github.com/Seann-Moser/rgbled/cmd"

func main() {
	cmd.Execute()
}
