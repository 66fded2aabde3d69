package main

import "github.com/Tiliavir/ponto/cmd"

func main() {
	cmd.Execute()
}
