package main

import "github.com/oshokin/orientation-lock/cmd/orientation-lock-server/cmd"

func main() {
	cmd.Execute()
}
