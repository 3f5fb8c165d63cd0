package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	cmdcommon "boscoin.io/obscura/cmd/obscura/common"
	"boscoin.io/obscura/lib/client"
	"boscoin.io/obscura/lib/common/keypair"
	"boscoin.io/obscura/lib/transaction"
	"boscoin.io/obscura/lib/transaction/operation"
)

var (
	txCmd *cobra.Command

	flagSecretSeed  string
	flagNetworkIDTx string
)

func init() {
	txCmd = &cobra.Command{
		Use:   "tx <operation type> <operation body in json>",
		Short: "Sign and submit an operation",
		Long: fmt.Sprintf(
			"Sign and submit an operation; the operation type is one of %s",
			strings.Join(operationTypeNames(), ", "),
		),
		Args: cobra.ExactArgs(2),
		Run: func(c *cobra.Command, args []string) {
			kp, err := parseSecretSeed(flagSecretSeed)
			if err != nil {
				cmdcommon.PrintFlagsError(c, "--secret-seed", err)
			}

			op, err := makeOperation(operation.OperationType(args[0]), args[1])
			if err != nil {
				cmdcommon.PrintError(c, err)
			}

			nc, err := newNodeClient()
			if err != nil {
				cmdcommon.PrintFlagsError(c, "--timeout", err)
			}

			status, err := submitOperations(nc, kp, flagNetworkIDTx, op)
			if err != nil {
				cmdcommon.PrintError(c, err)
			}

			printOutput(c, status)
		},
	}

	txCmd.Flags().StringVar(&flagSecretSeed, "secret-seed", "", "secret seed of the source of the transaction")
	txCmd.Flags().StringVar(&flagNetworkIDTx, "network-id", "", "network id; by default the one of the node")
	addClientFlags(txCmd)

	rootCmd.AddCommand(txCmd)
}

func operationTypeNames() []string {
	return []string{
		string(operation.TypeRegisterVoter),
		string(operation.TypeDelegate),
		string(operation.TypeRevoke),
		string(operation.TypeCreateProposal),
		string(operation.TypeVote),
		string(operation.TypeCloseProposal),
		string(operation.TypeRequestDecryption),
		string(operation.TypeDecryptionCallback),
		string(operation.TypeMarkDecryptionFailed),
		string(operation.TypeClaimRefund),
	}
}

func parseSecretSeed(seed string) (*keypair.Full, error) {
	if len(seed) < 1 {
		return nil, errors.New("must be given")
	}

	parsed, err := keypair.Parse(seed)
	if err != nil {
		return nil, err
	}

	kp, ok := parsed.(*keypair.Full)
	if !ok {
		return nil, errors.New("not a secret seed")
	}
	return kp, nil
}

func makeOperation(t operation.OperationType, body string) (operation.Operation, error) {
	b, err := operation.UnmarshalBodyJSON(t, []byte(body))
	if err != nil {
		return operation.Operation{}, err
	}

	return operation.NewOperation(b)
}

// submitOperations signs the operations with the next sequence id of kp and
// submits them as one transaction.
func submitOperations(nc nodeClient, kp keypair.KP, networkID string, ops ...operation.Operation) (status client.TransactionStatus, err error) {
	var nid []byte
	if nid, err = networkIDOf(nc, networkID); err != nil {
		return
	}

	var seq client.Sequence
	if seq, err = nc.GetSequence(kp.Address()); err != nil {
		return
	}

	var tx transaction.Transaction
	if tx, err = transaction.NewTransaction(kp.Address(), seq.SequenceID, ops...); err != nil {
		return
	}
	tx.Sign(kp, nid)

	return nc.SubmitTransaction(tx)
}
