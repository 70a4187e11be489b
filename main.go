package main

import (
	"github.com/CSCfi/kielipankki-metax-bridge/cmd"
)

func main() {
	cmd.Execute()
}
