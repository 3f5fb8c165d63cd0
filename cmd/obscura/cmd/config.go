package cmd

import (
	"fmt"
	"io/ioutil"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v2"
)

// loadConfigFile reads a yaml file whose keys are flag names. A value from
// the file is used only when the flag was not given on the command line.
// Lists are given as yaml sequences.
//
//	network-id: obscura-network
//	rate-limit-api:
//	  - 100-S
//	  - 127.0.0.1=0-S
func loadConfigFile(flags *pflag.FlagSet, path string) error {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}

	return applyConfig(flags, b)
}

func applyConfig(flags *pflag.FlagSet, b []byte) error {
	var values yaml.MapSlice
	if err := yaml.Unmarshal(b, &values); err != nil {
		return err
	}

	for _, item := range values {
		name := fmt.Sprintf("%v", item.Key)
		if name == "config" {
			return fmt.Errorf("config file can not include another config file")
		}

		f := flags.Lookup(name)
		if f == nil {
			return fmt.Errorf("unknown option, '%s'", name)
		}
		if f.Changed {
			continue
		}

		switch v := item.Value.(type) {
		case []interface{}:
			for _, i := range v {
				if err := flags.Set(name, fmt.Sprintf("%v", i)); err != nil {
					return fmt.Errorf("invalid '%s': %v", name, err)
				}
			}
		case nil:
			continue
		default:
			if err := flags.Set(name, fmt.Sprintf("%v", v)); err != nil {
				return fmt.Errorf("invalid '%s': %v", name, err)
			}
		}
	}

	return nil
}
