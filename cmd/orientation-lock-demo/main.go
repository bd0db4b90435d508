package main

import "github.com/oshokin/orientation-lock/cmd/orientation-lock-demo/cmd"

func main() {
	cmd.Execute()
}
