package common

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"boscoin.io/obscura/lib/client"
	"boscoin.io/obscura/lib/errors"
)

func errorString(err error) string {
	switch e := err.(type) {
	case *errors.Error:
		return e.Message
	case *client.Error:
		if len(e.Problem.Extras) > 0 {
			return fmt.Sprintf("%s %v", e.Problem.Title, e.Problem.Extras)
		}
		return e.Problem.Title
	default:
		return err.Error()
	}
}

// PrintFlagsError issues a message on Stderr then exit with an error code.
func PrintFlagsError(cmd *cobra.Command, flagName string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: invalid '%s'; %s\n\n", flagName, errorString(err))
	}

	cmd.Help()

	os.Exit(1)
}

// PrintError reports an error that is not caused by the usage, so no help is
// shown.
func PrintError(cmd *cobra.Command, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", errorString(err))
	}

	os.Exit(1)
}

type ListFlags []string

func (i *ListFlags) Type() string {
	return "list"
}

func (i *ListFlags) String() string {
	return strings.Join([]string(*i), " ")
}

func (i *ListFlags) Set(value string) error {
	*i = append(*i, value)
	return nil
}
