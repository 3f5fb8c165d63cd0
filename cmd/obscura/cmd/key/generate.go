package key

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/spf13/cobra"

	"boscoin.io/obscura/cmd/obscura/common"
	"boscoin.io/obscura/lib/common/keypair"
)

var (
	GenerateCmd *cobra.Command

	flagParse  bool
	flagFormat string
)

type keyPair struct {
	Seed              string  `json:"seed"`
	Address           string  `json:"address"`
	NetworkPassphrase *string `json:"network_passphrase,omitempty"`
}

var defaultTemplate = template.Must(template.New("").Funcs(template.FuncMap{
	"valueString": func(input *string) string {
		if input == nil {
			return ""
		}
		return *input
	},
}).Parse(`       Secret Seed: {{ .Seed }}
    Public Address: {{ .Address }}{{ if valueString .NetworkPassphrase }}
Network Passphrase: "{{ .NetworkPassphrase|valueString }}"{{ end }}
`))

func defaultEncode(v interface{}, w io.Writer) error {
	return defaultTemplate.Execute(w, v)
}

func onelineEncode(v interface{}, w io.Writer) error {
	kp := v.(keyPair)
	_, err := fmt.Fprintf(w, "%s %s\n", kp.Seed, kp.Address)
	return err
}

var keyEncoders = map[string]common.Encode{
	"json":       common.DefaultEncodes["json"],
	"prettyjson": common.DefaultEncodes["prettyjson"],
	"yaml":       common.DefaultEncodes["yaml"],
	"default":    defaultEncode,
	"oneline":    onelineEncode,
}

func init() {
	GenerateCmd = &cobra.Command{
		Use:   "generate [<secret seed> | <network passphrase>]",
		Short: "Generate keypair",
		Run: func(c *cobra.Command, args []string) {
			var passphrase *string
			input := strings.TrimSpace(strings.Join(args, " "))

			if flagParse && len(input) == 0 {
				common.PrintFlagsError(c, "--parse", errors.New("--parse needs <secret seed>"))
			}

			encode, ok := keyEncoders[flagFormat]
			if !ok {
				common.PrintFlagsError(c, "--format", fmt.Errorf(`"%s" not recognized`, flagFormat))
			}

			kp, err := generateKP(input, flagParse)
			if err != nil {
				common.PrintFlagsError(c, "<input>", fmt.Errorf("failed to parse secret seed: %v", err))
			}
			if !flagParse && len(input) > 0 {
				passphrase = &input
			}

			if err := encode(keyPair{Seed: kp.Seed(), Address: kp.Address(), NetworkPassphrase: passphrase}, os.Stdout); err != nil {
				common.PrintError(c, err)
			}
		},
	}

	GenerateCmd.Flags().BoolVar(&flagParse, "parse", false, "parse secret seed")
	GenerateCmd.Flags().StringVar(&flagFormat, "format", "default", "format={default, json, oneline, prettyjson, yaml}")
}

func generateKP(seedOrNetworkPassphrase string, fromSeed bool) (full *keypair.Full, err error) {
	if len(seedOrNetworkPassphrase) == 0 {
		full, err = keypair.RandomCanFail()
	} else if fromSeed {
		var kp keypair.KP

		if kp, err = keypair.Parse(seedOrNetworkPassphrase); err == nil {
			if kf, ok := kp.(*keypair.Full); ok {
				full = kf
			} else {
				err = fmt.Errorf("not a secret seed")
			}
		}
	} else {
		full = keypair.Master(seedOrNetworkPassphrase).(*keypair.Full)
	}

	return
}
