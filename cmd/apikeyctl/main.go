package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/apikey/internal/apikey/app"
	"github.com/aussiebroadwan/apikey/internal/apikey/service"
	"github.com/aussiebroadwan/apikey/internal/apikey/store"
)

// cli carries state shared by the subcommands.
type cli struct {
	cfg    app.Config
	out    io.Writer
	output string

	st  store.Store
	svc *service.KeyService
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "apikeyctl",
		Short: "apikeyctl manages API keys directly in the service database",
		Long: "apikeyctl manages API keys directly in the service database.\n" +
			"It reads the same APIKEY_* environment variables (and .env file) as apikeyd.",
		SilenceUsage: true,
	}
	root.SetOut(c.out)
	root.PersistentFlags().StringVarP(&c.output, "output", "o", outputTable, "output format: table, yaml or json")

	root.AddCommand(
		newCreateCmd(c),
		newListCmd(c),
		newGetCmd(c),
		newRevokeCmd(c),
		newDeleteCmd(c),
		newCheckCmd(c),
		newTokenCmd(c),
	)
	return root
}

// openService connects to the store on first use.
func (c *cli) openService() (*service.KeyService, error) {
	if c.svc != nil {
		return c.svc, nil
	}

	st, err := app.OpenStore(c.cfg)
	if err != nil {
		return nil, err
	}
	opts, err := app.KeyManagerOptions(c.cfg)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	c.st = st
	c.svc = service.NewKeyService(st, nil, opts...)
	return c.svc, nil
}

func (c *cli) close() {
	if c.st != nil {
		_ = c.st.Close()
	}
}

func main() {
	c := &cli{cfg: app.LoadConfig(), out: os.Stdout}
	defer c.close()

	if err := newRootCmd(c).Execute(); err != nil {
		c.close()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
