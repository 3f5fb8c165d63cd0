package main

import (
	"boscoin.io/obscura/cmd/obscura/cmd"
)

func main() {
	cmd.Execute()
}
