package main

import "eventsphere-scanner/cmd"

func main() {
	cmd.Execute()
}
