package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"

	"github.com/abdul-hamid-achik/hitreq/packages/core/request"
	"github.com/abdul-hamid-achik/hitreq/packages/quick"
	"github.com/spf13/cobra"
)

// requestFlags are shared by the one-off request commands
type requestFlags struct {
	params  []string
	headers []string
	cookies []string
	charset string
	kind    string
	extract string
}

func (f *requestFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.params, "param", "p", nil, "Parameter as name=value, name=@file uploads a file (repeatable)")
	cmd.Flags().StringArrayVarP(&f.headers, "header", "H", nil, "Header as Name:value (repeatable)")
	cmd.Flags().StringArrayVarP(&f.cookies, "cookie", "c", nil, "Cookie as name=value (repeatable)")
	cmd.Flags().StringVar(&f.charset, "charset", getEnvString("HITREQ_CHARSET", ""), "Request and response charset (env: HITREQ_CHARSET)")
	cmd.Flags().StringVarP(&f.kind, "kind", "k", "html", "Response kind: html, bytes, json")
	cmd.Flags().StringVarP(&f.extract, "extract", "x", "", "Print only the value at this JSON path")
}

func (f *requestFlags) options() ([]quick.Option, error) {
	params, err := parsePairs(f.params, "=")
	if err != nil {
		return nil, err
	}
	fileParams(params)
	headers, err := parseStringPairs(f.headers, ":")
	if err != nil {
		return nil, err
	}
	cookies, err := parseStringPairs(f.cookies, "=")
	if err != nil {
		return nil, err
	}
	opts := []quick.Option{
		quick.WithParams(params),
		quick.WithHeaders(headers),
		quick.WithCookies(cookies),
	}
	if f.charset != "" {
		opts = append(opts, quick.WithCharset(f.charset))
	}
	return opts, nil
}

var (
	getFlags  requestFlags
	postFlags requestFlags
)

var getCmd = &cobra.Command{
	Use:   "get <url>",
	Short: "Send a GET request",
	Long: `Send a one-off GET request. Parameters go into the query string and
{name} tokens in the URL are filled from parameters of the same name.

Examples:
  hitreq get https://api.example.com/users/{id} -p id=42 --kind json
  hitreq get https://example.com/search -p q=go -p lang=en
  hitreq get https://api.example.com/me -H "Authorization: Bearer t" -x name`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRequest(cmd, http.MethodGet, args[0], &getFlags)
	},
}

var postCmd = &cobra.Command{
	Use:   "post <url>",
	Short: "Send a POST request",
	Long: `Send a one-off POST request. Parameters are sent form encoded in the
request charset, or as multipart when any parameter is a file.

Examples:
  hitreq post https://example.com/login -p user=ada -p pass=secret
  hitreq post https://example.com/upload -p report=@report.csv
  hitreq post https://example.com/form -p name=café --charset ISO-8859-1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRequest(cmd, http.MethodPost, args[0], &postFlags)
	},
}

func init() {
	getFlags.register(getCmd)
	postFlags.register(postCmd)
}

func runRequest(cmd *cobra.Command, method, url string, f *requestFlags) error {
	kind, err := request.ParseResponseKind(f.kind)
	if err != nil {
		return withExitCode(ExitUsageError, err)
	}
	opts, err := f.options()
	if err != nil {
		return withExitCode(ExitUsageError, err)
	}

	s, err := newSession(cmd, true)
	if err != nil {
		return err
	}
	defer s.Close()

	var resultType reflect.Type
	if kind == request.ResponseJSON {
		resultType = request.TypeOf[any]()
	}
	opts = append(opts, quick.WithEngine(s.engine))

	res, err := quick.Do(cmd.Context(), method, url, kind, resultType, opts...)
	var failure *quick.FailureError
	if err != nil && !errors.As(err, &failure) {
		return withExitCode(ExitUsageError, err)
	}
	return report(cmd, s, method+" "+url, res, f.extract)
}

// report renders a result and maps synthesized failures to exit codes
func report(cmd *cobra.Command, s *session, name string, res *request.Result, extract string) error {
	if extract != "" && !res.Failed() {
		v := res.Path(extract)
		if !v.Exists() {
			return withExitCode(ExitRequestFailure, fmt.Errorf("path %q not found in response", extract))
		}
		fmt.Fprintln(cmd.OutOrStdout(), v.String())
		return nil
	}

	s.formatter.FormatResult(name, res)
	if code := resultExitCode(res); code != ExitSuccess {
		return withExitCode(code, fmt.Errorf("%s: %s", name, res.Text()))
	}
	return nil
}
