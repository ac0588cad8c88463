package main

import (
	"fmt"
	"os"

	"github.com/limaJavier/timetabling-ga/pkg/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

func sampleCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Print the built-in sample input",
		RunE: func(cmd *cobra.Command, args []string) error {
			input := model.SampleInput()
			if viper.GetBool("json") || format == "json" {
				return printJSON(input)
			}
			if format != "yaml" {
				return fmt.Errorf("%v is not a valid format", format)
			}

			encoder := yaml.NewEncoder(os.Stdout)
			encoder.SetIndent(2)
			defer encoder.Close()
			return encoder.Encode(input)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format (yaml, json)")
	return cmd
}
