package main

import "github/chapool/dsa-connect/cmd"

func main() {
	cmd.Execute()
}
