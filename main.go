package main

import "github.com/treydbuddy/backend/cmd"

func main() {
	cmd.Execute()
}
