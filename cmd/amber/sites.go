package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/watthour/amber-tools/internal/cli"
)

func sitesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sites",
		Short: "List the sites registered to the account",
		Args:  cobra.NoArgs,
		RunE:  runSites,
	}
}

func runSites(cmd *cobra.Command, _ []string) error {
	client, err := newAmberClient()
	if err != nil {
		return err
	}
	sites, err := client.FetchSites(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Println(cli.FormatTitle(fmt.Sprintf("Sites (%d)", len(sites))))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, cli.SectionStyle.Render("SITE ID")+"\t"+
		cli.SectionStyle.Render("NMI")+"\t"+
		cli.SectionStyle.Render("CHANNELS"))
	for _, site := range sites {
		channels := make([]string, len(site.Channels))
		for i, ch := range site.Channels {
			channels[i] = fmt.Sprintf("%s (%s)", ch.Identifier, ch.Type)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", site.ID, site.NMI, strings.Join(channels, ", "))
	}
	return w.Flush()
}
