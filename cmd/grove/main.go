package main

import "github.com/jeremyhon/grove/internal/cmd"

func main() {
	cmd.Execute()
}
