package main

import "github.com/toonfmt/go-toon/cmd/toon/cmd"

func main() {
	cmd.Execute()
}
