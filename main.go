package main

import "github.com/iksnae/teampulse/cmd"

func main() {
	cmd.Execute()
}
