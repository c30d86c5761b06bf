// Command fig is the thin entrypoint for the FIG front-end and estimation
// controller; all real work happens in pkg/cmd.
package main

import "github.com/raulmonti/fig/pkg/cmd"

func main() {
	cmd.Execute()
}
