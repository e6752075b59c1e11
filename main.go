package main

import cmd "github.com/rohmanhakim/coin-checker/internal/cli"

func main() {
	cmd.Execute()
}
