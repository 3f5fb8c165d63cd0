package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	cmdcommon "boscoin.io/obscura/cmd/obscura/common"
	"boscoin.io/obscura/lib/client"
	"boscoin.io/obscura/lib/common"
	"boscoin.io/obscura/lib/common/keypair"
	"boscoin.io/obscura/lib/decryption"
	"boscoin.io/obscura/lib/transaction/operation"
)

var (
	authorityCmd *cobra.Command

	flagAuthoritySeed      string = common.GetENVValue("OBSCURA_AUTHORITY_SEED", "")
	flagAuthorityTallyKey  string = common.GetENVValue("OBSCURA_TALLY_KEY", "")
	flagAuthorityNetworkID string
)

func init() {
	authorityCmd = &cobra.Command{
		Use:   "authority",
		Short: "Act as the decryption authority",
	}

	respondCmd := &cobra.Command{
		Use:   "respond <proposal id>",
		Short: "Open the tally of a pending decryption request and submit the callback",
		Args:  cobra.ExactArgs(1),
		Run: func(c *cobra.Command, args []string) {
			id, err := parseProposalID(args[0])
			if err != nil {
				cmdcommon.PrintError(c, err)
			}

			kp, err := parseSecretSeed(flagAuthoritySeed)
			if err != nil {
				cmdcommon.PrintFlagsError(c, "--secret-seed", err)
			}

			var tallyConfig common.Config
			if err := tallyConfig.SetTallyKeyHex(flagAuthorityTallyKey); err != nil {
				cmdcommon.PrintFlagsError(c, "--tally-key", err)
			}

			nc, err := newNodeClient()
			if err != nil {
				cmdcommon.PrintFlagsError(c, "--timeout", err)
			}

			status, err := respondDecryption(nc, kp, flagAuthorityNetworkID, tallyConfig.TallyKey, id)
			if err != nil {
				cmdcommon.PrintError(c, err)
			}

			printOutput(c, status)
		},
	}
	respondCmd.Flags().StringVar(&flagAuthoritySeed, "secret-seed", flagAuthoritySeed, "secret seed of the decryption authority")
	respondCmd.Flags().StringVar(&flagAuthorityTallyKey, "tally-key", flagAuthorityTallyKey, "hex encoded key sealing the tallies")
	respondCmd.Flags().StringVar(&flagAuthorityNetworkID, "network-id", "", "network id; by default the one of the node")
	addClientFlags(respondCmd)

	authorityCmd.AddCommand(respondCmd)
	rootCmd.AddCommand(authorityCmd)
}

// authorityClient is the part of client.Client the authority needs.
type authorityClient interface {
	nodeClient
	GetDecryption(id uint64) (client.DecryptionRequest, error)
	GetEncryptedVotes(id uint64) (client.EncryptedVotes, error)
}

func respondDecryption(nc authorityClient, kp keypair.KP, networkID string, tallyKey [common.TallyKeyLength]byte, proposalID uint64) (status client.TransactionStatus, err error) {
	var request client.DecryptionRequest
	if request, err = nc.GetDecryption(proposalID); err != nil {
		return
	}
	if request.Status != decryption.StatusPending {
		err = fmt.Errorf("decryption request of proposal %d is not pending, '%s'", proposalID, request.Status)
		return
	}

	var votes client.EncryptedVotes
	if votes, err = nc.GetEncryptedVotes(proposalID); err != nil {
		return
	}
	if len(votes.SealedTally) < 1 {
		err = errors.New("node did not give the sealed tally")
		return
	}

	var nid []byte
	if nid, err = networkIDOf(nc, networkID); err != nil {
		return
	}

	yes, no, proof, err := decryption.NewAuthority(kp, nid, tallyKey).Respond(request.ID, votes.SealedTally)
	if err != nil {
		return
	}

	var op operation.Operation
	if op, err = operation.NewOperation(operation.NewDecryptionCallback(request.ID, yes, no, proof)); err != nil {
		return
	}

	return submitOperations(nc, kp, string(nid), op)
}
