package main

import "github.com/chrisdamba/cafeorder/cmd"

func main() {
	cmd.Execute()
}
