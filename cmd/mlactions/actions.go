package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"mlactions/internal/action"
	"mlactions/internal/config"
	"mlactions/internal/runtime"
)

func buildSetupCmd(o *options) *cobra.Command {
	var (
		pairs   []string
		hfToken string
	)
	cmd := &cobra.Command{
		Use:     "setup <action>",
		Short:   "Run an action's setup stage and print its status lines",
		Example: "  mlactions setup mistral --hf-token hf_xxx\n  mlactions setup sentiment",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actArgs, err := parseArgs(pairs)
			if err != nil {
				return err
			}
			for k, v := range setupArgs(o.cfg) {
				if !actArgs.Has(k) {
					actArgs[k] = v
				}
			}
			if hfToken != "" {
				actArgs[action.ArgHFToken] = hfToken
			}
			a, err := build(cmd.Context(), o.cfg, o.log)
			if err != nil {
				return err
			}
			defer a.Close()
			res, err := a.host.Setup(cmd.Context(), args[0], actArgs)
			printSetup(cmd.OutOrStdout(), res)
			return err
		},
	}
	cmd.Flags().StringArrayVar(&pairs, "arg", nil, "Action argument key=value (repeatable)")
	cmd.Flags().StringVar(&hfToken, "hf-token", "", "Hugging Face token passed as hf_token")
	return cmd
}

func printSetup(w io.Writer, res runtime.SetupResult) {
	for _, l := range res.Status {
		fmt.Fprintln(w, l)
	}
	if res.State != "" {
		fmt.Fprintf(w, "%s: %s\n", res.Action, res.State)
	}
}

func buildInvokeCmd(o *options) *cobra.Command {
	var (
		pairs  []string
		input  string
		status bool
	)
	cmd := &cobra.Command{
		Use:   "invoke <action>",
		Short: "Invoke an action's main stage and print the JSON response",
		Example: "  mlactions invoke sentiment --input 'I love this'\n" +
			"  mlactions invoke mistral --status   # replay stored setup status (needs redis)",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actArgs, err := parseArgs(pairs)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("input") {
				actArgs[action.ArgInput] = input
			}
			a, err := build(cmd.Context(), o.cfg, o.log)
			if err != nil {
				return err
			}
			defer a.Close()
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if status {
				resp, err := a.host.StatusQuery(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return enc.Encode(resp)
			}
			resp, _, err := a.host.Run(cmd.Context(), args[0], actArgs)
			if err != nil {
				return err
			}
			return enc.Encode(resp)
		},
	}
	cmd.Flags().StringArrayVar(&pairs, "arg", nil, "Action argument key=value (repeatable)")
	cmd.Flags().StringVar(&input, "input", "", "Text passed as input")
	cmd.Flags().BoolVar(&status, "status", false, "Report the stored setup status instead of running")
	return cmd
}

// splitCSV splits comma-separated flag values.
func splitCSV(s string) []string { return config.SplitCSV(s) }
