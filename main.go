package main

import (
	"github.com/criptax/criptax/cmd"
)

func main() {
	cmd.Execute()
}
