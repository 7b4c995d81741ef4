package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/staticssdp/internal/advertise"
	"github.com/muurk/staticssdp/internal/config"
	"github.com/muurk/staticssdp/internal/logging"
	"github.com/muurk/staticssdp/internal/responder"
	"github.com/muurk/staticssdp/internal/service"
	"github.com/muurk/staticssdp/internal/ui"
	"github.com/muurk/staticssdp/internal/version"
)

// Serve command flags
var (
	ifaceName      string
	multicastGroup string
	port           int
	logLevel       string
	spoof          bool
	spoofUser      string
	spoofGroup     string
	announcePeriod time.Duration
	noMDNS         bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the SSDP responder",
	Long: `Run the responder until interrupted.

The responder joins the SSDP multicast group, answers matching M-SEARCH
requests and multicasts ssdp:alive announcements. On SIGINT or SIGTERM it
multicasts one goodbye announcement per service and exits.

Flags override the corresponding settings of the configuration file.`,
	Example: `  # Serve the default configuration file
  staticssdp serve

  # Serve on a specific interface with debug logging
  staticssdp serve --config bridge.yaml --interface eth0 --log-level debug

  # Answer with the advertised device's own address (needs root, drops to nobody)
  sudo staticssdp serve --config bridge.yaml --interface eth0 --spoof`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&ifaceName, "interface", "i", "", "Network interface to join the multicast group on")
	serveCmd.Flags().StringVar(&multicastGroup, "multicast-group", "", "SSDP multicast group address")
	serveCmd.Flags().IntVar(&port, "port", 0, "SSDP port")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	serveCmd.Flags().BoolVar(&spoof, "spoof", false, "Send packets with each service's ip as source address (linux, needs root)")
	serveCmd.Flags().StringVar(&spoofUser, "run-user", "", "Unix user to switch to after opening the spoofing socket")
	serveCmd.Flags().StringVar(&spoofGroup, "run-group", "", "Unix group to switch to after opening the spoofing socket")
	serveCmd.Flags().DurationVar(&announcePeriod, "announce-period", 0, "Interval between ssdp:alive announcements")
	serveCmd.Flags().BoolVar(&noMDNS, "no-mdns", false, "Do not register the DNS-SD companion records")
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(logLevel); err != nil {
		return err
	}
	defer logging.Sync()
	logging.Info("Starting staticssdp", zap.String("version", version.Full()))

	file, err := config.Load(configPath)
	if err != nil {
		return err
	}
	applyServeFlags(cmd, &file.Network)
	if err := file.Validate(); err != nil {
		return err
	}

	descriptors := file.ServiceDescriptors()
	r, err := responder.New(responderConfig(file.Network), descriptors)
	if err != nil {
		return fmt.Errorf("failed to create responder: %w", err)
	}

	var adv *advertise.Advertiser
	if !noMDNS {
		adv = advertise.New(file.Network.Interface)
		if err := adv.Start(descriptors); err != nil {
			logging.Warn("DNS-SD advertisement disabled", zap.Error(err))
			adv = nil
		} else if adv.Len() > 0 {
			logging.Info("DNS-SD advertisement active", zap.Int("records", adv.Len()))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = r.Serve(ctx)
	if adv != nil {
		adv.Stop()
	}
	return err
}

// applyServeFlags copies explicitly set flags over the file settings.
func applyServeFlags(cmd *cobra.Command, n *config.Network) {
	flags := cmd.Flags()
	if flags.Changed("interface") {
		n.Interface = ifaceName
	}
	if flags.Changed("multicast-group") {
		n.Group = multicastGroup
	}
	if flags.Changed("port") {
		n.Port = port
	}
	if flags.Changed("spoof") {
		n.Spoof.Enabled = spoof
	}
	if flags.Changed("run-user") {
		n.Spoof.User = spoofUser
	}
	if flags.Changed("run-group") {
		n.Spoof.Group = spoofGroup
	}
	if flags.Changed("announce-period") {
		n.AnnouncePeriod = announcePeriod
	}
}

func responderConfig(n config.Network) responder.Config {
	cfg := responder.DefaultConfig()
	cfg.Group = net.ParseIP(n.Group)
	cfg.Port = n.Port
	cfg.Interface = n.Interface
	cfg.BufferSize = n.BufferSize
	cfg.MulticastTTL = n.MulticastTTL
	cfg.AnnouncePeriod = n.AnnouncePeriod
	cfg.SettleDelay = n.SettleDelay
	cfg.ReceiveTimeout = n.ReceiveTimeout
	cfg.GoodbyeNTS = n.GoodbyeNTS
	cfg.Spoof = responder.SpoofConfig{
		Enabled: n.Spoof.Enabled,
		User:    n.Spoof.User,
		Group:   n.Spoof.Group,
		TTL:     uint8(n.Spoof.TTL),
	}
	return cfg
}

var plainOutput bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration and preview search responses",
	Long: `Load and validate the configuration file, then render the search
response of every configured service exactly as 'serve' would send it.

Computed params are evaluated once for the preview.`,
	Example: `  staticssdp check --config bridge.yaml
  staticssdp check --config bridge.yaml --plain > responses.txt`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&plainOutput, "plain", false, "Disable styling (default when stdout is not a terminal)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	plain := plainOutput || !ui.IsTerminal()
	width := ui.GetTerminalWidth()

	path := configPath
	if path == "" {
		p, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	header := ui.NewHeader("Configuration check", "staticssdp check", []ui.Param{{Key: "Config", Value: path}})
	printBlock(out, plain, header.RenderPlain(), header.Render())

	file, err := config.Load(path)
	if err != nil {
		result := ui.NewFailureResult("Configuration invalid", problems(err)...)
		printBlock(out, plain, result.RenderPlain(), result.Render())
		return errors.New("configuration invalid")
	}

	services := 0
	for _, d := range file.ServiceDescriptors() {
		for i, svc := range d.Services {
			payload, fields, err := d.Response(svc)
			p := ui.Preview{Descriptor: d.Name, Index: i, SearchTarget: svc.SearchTarget(), Payload: payload, Err: err}
			if fields != nil {
				p.SearchTarget = fields.String(service.FieldSearchTarget)
			}
			fmt.Fprintln(out, p.Render(width, plain))
			services++
		}
	}

	result := ui.NewSuccessResult("Configuration valid", []ui.Param{
		{Key: "Descriptors", Value: strconv.Itoa(len(file.Descriptors))},
		{Key: "Services", Value: strconv.Itoa(services)},
		{Key: "Group", Value: net.JoinHostPort(file.Network.Group, strconv.Itoa(file.Network.Port))},
		{Key: "Spoofing", Value: strconv.FormatBool(file.Network.Spoof.Enabled)},
	})
	printBlock(out, plain, result.RenderPlain(), result.Render())
	return nil
}

func printBlock(w io.Writer, plain bool, plainText, styled string) {
	if plain {
		fmt.Fprint(w, plainText)
		return
	}
	fmt.Fprintln(w, styled)
}

// problems flattens a validation error into its individual problems.
func problems(err error) []error {
	var verr *config.ValidationError
	if errors.As(err, &verr) {
		return verr.Problems
	}
	return []error{err}
}
