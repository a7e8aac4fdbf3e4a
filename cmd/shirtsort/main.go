// shirtsort - sort photos by the colour of the shirt being worn
//
// shirtsort detects the dominant garment colour in each photo and groups
// photos of the same outfit together.
package main

import (
	"os"

	"github.com/jmylchreest/shirtsort/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
