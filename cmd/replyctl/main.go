package main

import "seller-assistant/internal/cmd"

func main() {
	cmd.Execute()
}
