// Staticssdp is an SSDP responder for statically configured UPnP services.
//
// It answers M-SEARCH queries on 239.255.255.250:1900 with responses rendered
// from the templates in its configuration file and announces the services
// with periodic NOTIFY messages. With spoofing enabled it answers on behalf of
// devices at other addresses.
//
// Usage:
//
//	staticssdp serve --config /etc/staticssdp/config.yaml
//
// See 'staticssdp --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/staticssdp/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "staticssdp",
	Short: "Static SSDP responder",
	Long: `An SSDP responder that advertises statically configured UPnP services.

Search responses and NOTIFY announcements are rendered from templates in a
YAML configuration file. Use 'check' to preview them before serving.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var configPath string

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Configuration file (default: $XDG_CONFIG_HOME/staticssdp/config.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "staticssdp %s\n", version.Full())
	},
}
