// The main package for the webminer executable.
package main

import (
	"github.com/grobinson/webminer/cmd"
)

func main() {
	cmd.Execute()
}
