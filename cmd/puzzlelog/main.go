// Command puzzlelog plays the daily number puzzle and reports on the local
// activity log.
package main

import (
	"os"

	"github.com/mesh-intelligence/puzzlelog/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
