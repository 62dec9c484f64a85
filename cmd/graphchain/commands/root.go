package commands

import (
	"github.com/spf13/cobra"
)

var (
	_config = NewDefaultCLIConfig()
)

//RootCmd is the root command for graphchain
var RootCmd = &cobra.Command{
	Use:              "graphchain",
	Short:            "graphchain - a ledger of canonically hashed RDF graphs",
	TraverseChildren: true,
}
