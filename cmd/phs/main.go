package main

import "github.com/luisamog/ARKHO-PHS/cmd/phs/root"

func main() {
	root.Execute()
}
