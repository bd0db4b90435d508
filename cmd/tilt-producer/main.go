package main

import "github.com/oshokin/orientation-lock/cmd/tilt-producer/cmd"

func main() {
	cmd.Execute()
}
