package main

import "github/chapool/go-dapp/cmd"

func main() {
	cmd.Execute()
}
