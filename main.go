package main

import (
	"fmt"
	"os"
	"thechess/src/ui"
)

func main() {
	if err := ui.RunTheChess(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
