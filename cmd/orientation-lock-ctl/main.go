package main

import "github.com/oshokin/orientation-lock/cmd/orientation-lock-ctl/cmd"

func main() {
	cmd.Execute()
}
