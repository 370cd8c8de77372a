package main

import "github.com/chapool/go-substrate-client/cmd"

func main() {
	cmd.Execute()
}
