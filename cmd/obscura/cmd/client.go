package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	cmdcommon "boscoin.io/obscura/cmd/obscura/common"
	"boscoin.io/obscura/lib/client"
	"boscoin.io/obscura/lib/common"
	"boscoin.io/obscura/lib/node"
	"boscoin.io/obscura/lib/transaction"
)

const defaultNodeEndpoint string = "http://127.0.0.1:12345"

var (
	flagNode          string = common.GetENVValue("OBSCURA_NODE", defaultNodeEndpoint)
	flagClientTimeout string = common.GetENVValue("OBSCURA_CLIENT_TIMEOUT", "10s")
	flagFormat        string = "json"
)

// nodeClient is the part of client.Client submitting transactions.
type nodeClient interface {
	GetNodeInfo() (node.NodeInfo, error)
	GetSequence(address string) (client.Sequence, error)
	SubmitTransaction(tx transaction.Transaction) (client.TransactionStatus, error)
}

func addClientFlags(c *cobra.Command) {
	c.Flags().StringVar(&flagNode, "node", flagNode, "endpoint of the node")
	c.Flags().StringVar(&flagClientTimeout, "timeout", flagClientTimeout, "timeout of each request to the node")
	c.Flags().StringVar(&flagFormat, "format", flagFormat, "output format, {json, prettyjson, yaml}")
}

func newNodeClient() (*client.Client, error) {
	timeout, err := time.ParseDuration(flagClientTimeout)
	if err != nil {
		return nil, err
	}

	retry := client.DefaultRetrySetting
	return client.NewClient(flagNode, timeout, &retry), nil
}

// networkIDOf gives the given network id, otherwise the one the node runs
// with.
func networkIDOf(c nodeClient, given string) ([]byte, error) {
	if len(given) > 0 {
		return []byte(given), nil
	}

	info, err := c.GetNodeInfo()
	if err != nil {
		return nil, err
	}
	return []byte(info.Policy.NetworkID), nil
}

func printOutput(c *cobra.Command, v interface{}) {
	encode, found := cmdcommon.DefaultEncodes[flagFormat]
	if !found {
		cmdcommon.PrintFlagsError(c, "--format", fmt.Errorf("unknown format, '%s'", flagFormat))
	}
	if err := encode(v, os.Stdout); err != nil {
		cmdcommon.PrintError(c, err)
	}
}
