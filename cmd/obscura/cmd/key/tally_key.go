package key

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"boscoin.io/obscura/cmd/obscura/common"
	obscuracommon "boscoin.io/obscura/lib/common"
)

var TallyKeyCmd *cobra.Command

func init() {
	TallyKeyCmd = &cobra.Command{
		Use:   "tally-key",
		Short: "Generate the key sealing the tallies, shared by the nodes and the decryption authority",
		Args:  cobra.NoArgs,
		Run: func(c *cobra.Command, args []string) {
			key, err := generateTallyKey()
			if err != nil {
				common.PrintError(c, err)
			}
			fmt.Fprintln(os.Stdout, key)
		},
	}
}

func generateTallyKey() (string, error) {
	b := make([]byte, obscuracommon.TallyKeyLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
