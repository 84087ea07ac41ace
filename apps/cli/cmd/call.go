package cmd

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/abdul-hamid-achik/hitreq/packages/declare"
	"github.com/spf13/cobra"
)

var (
	callInputs  []string
	callHeaders []string
	callCookies []string
	callExtract string

	envFileFlag string
	varFlags    []string
)

var callCmd = &cobra.Command{
	Use:   "call <file> [endpoint]",
	Short: "Execute an endpoint declared in a YAML file",
	Long: `Execute a declared endpoint. Inputs are checked against the declared
parameters: defaults are applied, required and typed parameters are
validated and every failure is reported before anything is sent.

Without an endpoint name the declared endpoints are listed.

Examples:
  hitreq call api.yaml
  hitreq call api.yaml getUser -p id=42
  hitreq call api.yaml search -p q=go -x items.0.name`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runCall,
}

func init() {
	callCmd.Flags().StringArrayVarP(&callInputs, "param", "p", nil, "Input as name=value, name=@file uploads a file (repeatable)")
	callCmd.Flags().StringArrayVarP(&callHeaders, "header", "H", nil, "Header as Name:value (repeatable)")
	callCmd.Flags().StringArrayVarP(&callCookies, "cookie", "c", nil, "Cookie as name=value (repeatable)")
	callCmd.Flags().StringVarP(&callExtract, "extract", "x", "", "Print only the value at this JSON path")
	declarationFlags(callCmd)
}

// declarationFlags registers the flags feeding {{variable}} resolution
func declarationFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&envFileFlag, "env-file", getEnvString("HITREQ_ENV_FILE", ""), "Path to .env file for {{variable}} resolution (env: HITREQ_ENV_FILE)")
	cmd.Flags().StringArrayVar(&varFlags, "var", nil, "Declaration variable as name=value (repeatable)")
}

func loadCatalog(cmd *cobra.Command, path string) (*declare.Catalog, error) {
	vars, err := parseStringPairs(varFlags, "=")
	if err != nil {
		return nil, withExitCode(ExitUsageError, err)
	}
	opts := []declare.Option{
		declare.WithVariables(vars),
		declare.WithLogger(newLogger(cmd.ErrOrStderr())),
	}
	if envFileFlag != "" {
		opts = append(opts, declare.WithEnvFile(envFileFlag))
	}
	catalog, err := declare.Load(path, opts...)
	if err != nil {
		return nil, withExitCode(ExitParseError, err)
	}
	if missing := catalog.Unresolved(); len(missing) > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: unresolved variables: %v\n", missing)
	}
	return catalog, nil
}

func runCall(cmd *cobra.Command, args []string) error {
	catalog, err := loadCatalog(cmd, args[0])
	if err != nil {
		return err
	}

	if len(args) == 1 {
		out := cmd.OutOrStdout()
		for _, name := range catalog.Names() {
			ep, _ := catalog.Get(name)
			method := ep.Method
			if method == "" {
				method = http.MethodGet
			}
			fmt.Fprintf(out, "%-24s %-7s %s\n", name, method, ep.URL)
			if ep.Description != "" {
				fmt.Fprintf(out, "  %s\n", ep.Description)
			}
		}
		return nil
	}

	ep, err := catalog.Get(args[1])
	if err != nil {
		if errors.Is(err, declare.ErrUnknownEndpoint) {
			return withExitCode(ExitUsageError, fmt.Errorf("%w (declared: %v)", err, catalog.Sorted()))
		}
		return withExitCode(ExitParseError, err)
	}

	inputs, err := parsePairs(callInputs, "=")
	if err != nil {
		return withExitCode(ExitUsageError, err)
	}
	fileParams(inputs)
	headers, err := parseStringPairs(callHeaders, ":")
	if err != nil {
		return withExitCode(ExitUsageError, err)
	}
	cookies, err := parseStringPairs(callCookies, "=")
	if err != nil {
		return withExitCode(ExitUsageError, err)
	}

	s, err := newSession(cmd, true)
	if err != nil {
		return err
	}
	defer s.Close()

	r := s.engine.NewRequest(ep)
	for k, v := range inputs {
		r.SetInput(k, v)
	}
	for k, v := range headers {
		r.AddHeader(k, v)
	}
	for k, v := range cookies {
		r.AddCookie(k, v)
	}

	res, err := r.Execute(cmd.Context())
	if err != nil {
		return withExitCode(ExitUsageError, err)
	}
	s.logger.Debug("request finished", "endpoint", ep.Name, "state", r.State(), "status", res.Status)
	return report(cmd, s, ep.Name, res, callExtract)
}
