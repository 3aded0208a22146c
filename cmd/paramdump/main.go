package main

import "github.com/arloliu/paramfile/cmd/paramdump/cmd"

func main() {
	cmd.Execute()
}
