package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cmdcommon "boscoin.io/obscura/cmd/obscura/common"
	"boscoin.io/obscura/lib/client"
	"boscoin.io/obscura/lib/common/observer"
)

var (
	queryCmd *cobra.Command

	flagQueryLimit   string
	flagQueryCursor  string
	flagQueryReverse bool
	flagQueryTopics  cmdcommon.ListFlags
)

func init() {
	queryCmd = &cobra.Command{
		Use:   "query",
		Short: "Read the ledger through a node",
	}

	addQuery := func(use, short string, args cobra.PositionalArgs, fn func(*client.Client, []string) (interface{}, error)) *cobra.Command {
		c := &cobra.Command{
			Use:   use,
			Short: short,
			Args:  args,
			Run: func(c *cobra.Command, args []string) {
				nc, err := newNodeClient()
				if err != nil {
					cmdcommon.PrintFlagsError(c, "--timeout", err)
				}

				v, err := fn(nc, args)
				if err != nil {
					cmdcommon.PrintError(c, err)
				}
				printOutput(c, v)
			},
		}
		addClientFlags(c)
		queryCmd.AddCommand(c)

		return c
	}

	addQuery("node", "Show the node information", cobra.NoArgs, func(nc *client.Client, _ []string) (interface{}, error) {
		return nc.GetNodeInfo()
	})
	addQuery("voter <address>", "Show a voter", cobra.ExactArgs(1), func(nc *client.Client, args []string) (interface{}, error) {
		return nc.GetVoter(args[0])
	})
	addQuery("sequence <address>", "Show the sequence id of the next transaction of an account", cobra.ExactArgs(1), func(nc *client.Client, args []string) (interface{}, error) {
		return nc.GetSequence(args[0])
	})
	addQuery("proposal <id>", "Show a proposal", cobra.ExactArgs(1), func(nc *client.Client, args []string) (interface{}, error) {
		id, err := parseProposalID(args[0])
		if err != nil {
			return nil, err
		}
		return nc.GetProposal(id)
	})
	addQuery("votes <proposal id>", "Show the encrypted tally of a proposal", cobra.ExactArgs(1), func(nc *client.Client, args []string) (interface{}, error) {
		id, err := parseProposalID(args[0])
		if err != nil {
			return nil, err
		}
		return nc.GetEncryptedVotes(id)
	})
	addQuery("voted <proposal id> <address>", "Show whether an address voted on a proposal", cobra.ExactArgs(2), func(nc *client.Client, args []string) (interface{}, error) {
		id, err := parseProposalID(args[0])
		if err != nil {
			return nil, err
		}
		voted, err := nc.HasVoted(id, args[1])
		if err != nil {
			return nil, err
		}
		return client.HasVoted{ProposalID: id, Address: args[1], Voted: voted}, nil
	})
	addQuery("decryption <proposal id>", "Show the decryption request of a proposal", cobra.ExactArgs(1), func(nc *client.Client, args []string) (interface{}, error) {
		id, err := parseProposalID(args[0])
		if err != nil {
			return nil, err
		}
		return nc.GetDecryption(id)
	})
	addQuery("tx <hash>", "Show a submitted transaction", cobra.ExactArgs(1), func(nc *client.Client, args []string) (interface{}, error) {
		return nc.GetTransaction(args[0])
	})

	proposalsCmd := addQuery("proposals", "List proposals", cobra.NoArgs, func(nc *client.Client, _ []string) (interface{}, error) {
		return nc.GetProposals(proposalsQueries()...)
	})
	proposalsCmd.Flags().StringVar(&flagQueryLimit, "limit", "", "number of proposals in a page")
	proposalsCmd.Flags().StringVar(&flagQueryCursor, "cursor", "", "start after this proposal id")
	proposalsCmd.Flags().BoolVar(&flagQueryReverse, "reverse", false, "newest first")

	eventsCmd := &cobra.Command{
		Use:   "events",
		Short: "Follow the ledger events until interrupted",
		Args:  cobra.NoArgs,
		Run: func(c *cobra.Command, args []string) {
			nc, err := newNodeClient()
			if err != nil {
				cmdcommon.PrintFlagsError(c, "--timeout", err)
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			stop := make(chan struct{})
			go func() {
				cmdcommon.Interrupt(stop)
				cancel()
			}()
			defer close(stop)

			err = nc.StreamEvents(ctx, []string(flagQueryTopics), func(e observer.Event) {
				printOutput(c, e)
			})
			if err != nil {
				cmdcommon.PrintError(c, err)
			}
		},
	}
	eventsCmd.Flags().Var(&flagQueryTopics, "topic", "topic of the events; can be given several times")
	addClientFlags(eventsCmd)
	queryCmd.AddCommand(eventsCmd)

	rootCmd.AddCommand(queryCmd)
}

func parseProposalID(s string) (uint64, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid proposal id, '%s'", s)
	}
	return id, nil
}

func proposalsQueries() (qs []client.Q) {
	if len(flagQueryLimit) > 0 {
		qs = append(qs, client.Q{Key: client.QueryLimit, Value: flagQueryLimit})
	}
	if len(flagQueryCursor) > 0 {
		qs = append(qs, client.Q{Key: client.QueryCursor, Value: flagQueryCursor})
	}
	if flagQueryReverse {
		qs = append(qs, client.Q{Key: client.QueryReverse, Value: "true"})
	}

	return
}
