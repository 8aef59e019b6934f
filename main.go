package main

import "migration-verifier/cmd"

func main() {
	cmd.Execute()
}
