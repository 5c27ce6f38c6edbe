package main

import "accountd/cmd"

func main() {
	cmd.Execute()
}
