// bio-twolocus answers two-locus ancestry queries over a collection of
// samples.  Run "bio-twolocus help" for the list of subcommands.
package main

import "github.com/grailbio/twolocus/cmd/bio-twolocus/cmd"

func main() {
	cmd.Run()
}
