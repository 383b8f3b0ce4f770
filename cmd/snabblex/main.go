// snabblex is a Swedish–Arabic dictionary in the terminal.
// Local-first: the corpus is imported once into an embedded store and all
// searches run offline.
package main

import (
	"os"

	"github.com/nadir/snabblex/cmd/snabblex/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
