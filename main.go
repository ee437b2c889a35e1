package main

import "github.com/jsphweid/auxloop/cmd"

func main() {
	cmd.Execute()
}
