/*
Copyright © 2023 Mattis Møl Kristensen <mattismoel@gmail.com>
*/
package main

import "github.com/mattismoel/canvascal/cmd"

func main() {
	cmd.Execute()
}
