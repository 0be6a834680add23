package main

import "github.com/Tiliavir/trivial-attendance/cmd"

func main() {
	cmd.Execute()
}
