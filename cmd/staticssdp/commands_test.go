package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/muurk/staticssdp/internal/config"
)

const testConfig = `version: 1
network:
  interface: lo
descriptors:
  - name: bridge
    templates:
      notify: "NOTIFY * HTTP/1.1\nNT: {st}\nNTS: {nts}\n\n"
      response: "HTTP/1.1 200 OK\nST: {st}\nLOCATION: http://{ip}/description.xml\n\n"
    params:
      ip: 192.168.1.20
    services:
      - st: upnp:rootdevice
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunCheck(t *testing.T) {
	configPath = writeConfig(t, testConfig)
	plainOutput = true
	t.Cleanup(func() { configPath, plainOutput = "", false })

	var out bytes.Buffer
	checkCmd.SetOut(&out)
	t.Cleanup(func() { checkCmd.SetOut(nil) })

	if err := runCheck(checkCmd, nil); err != nil {
		t.Fatalf("runCheck() error = %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"CONFIGURATION CHECK",
		"== bridge #0  upnp:rootdevice ==\nHTTP/1.1 200 OK\nST: upnp:rootdevice\nLOCATION: http://192.168.1.20/description.xml\n",
		"OK: Configuration valid",
		"Services: 1",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRunCheckInvalid(t *testing.T) {
	configPath = writeConfig(t, "version: 1\n")
	plainOutput = true
	t.Cleanup(func() { configPath, plainOutput = "", false })

	var out bytes.Buffer
	checkCmd.SetOut(&out)
	t.Cleanup(func() { checkCmd.SetOut(nil) })

	if err := runCheck(checkCmd, nil); err == nil {
		t.Fatal("runCheck() error = nil for invalid config")
	}
	if got := out.String(); !strings.Contains(got, "FAILED: Configuration invalid") || !strings.Contains(got, "no descriptors configured") {
		t.Errorf("output = %q", got)
	}
}

func TestApplyServeFlags(t *testing.T) {
	n := config.DefaultNetwork()
	flags := serveCmd.Flags()
	for name, value := range map[string]string{
		"interface":       "eth1",
		"spoof":           "true",
		"run-user":        "ssdp",
		"multicast-group": "239.255.255.251",
		"announce-period": "90s",
	} {
		if err := flags.Set(name, value); err != nil {
			t.Fatalf("Set(%s) error = %v", name, err)
		}
	}

	applyServeFlags(serveCmd, &n)

	if n.Interface != "eth1" || !n.Spoof.Enabled || n.Spoof.User != "ssdp" || n.AnnouncePeriod != 90*time.Second || n.Group != "239.255.255.251" {
		t.Errorf("network = %+v", n)
	}
	// Flags that were not set leave the file values alone.
	if n.Port != 1900 || n.Spoof.Group != "nogroup" {
		t.Errorf("unset flags overrode file values: %+v", n)
	}
}

func TestResponderConfig(t *testing.T) {
	n := config.DefaultNetwork()
	n.Interface = "eth0"
	n.SettleDelay = 0
	n.GoodbyeNTS = "ssdp:byebye"
	n.Spoof.Enabled = true
	n.Spoof.TTL = 32

	cfg := responderConfig(n)
	if cfg.Group.String() != "239.255.255.250" || cfg.Port != 1900 || cfg.Interface != "eth0" {
		t.Errorf("socket config = %v:%d on %s", cfg.Group, cfg.Port, cfg.Interface)
	}
	if cfg.SettleDelay != 0 || cfg.AnnouncePeriod != 300*time.Second {
		t.Errorf("timings = %v / %v", cfg.SettleDelay, cfg.AnnouncePeriod)
	}
	if cfg.GoodbyeNTS != "ssdp:byebye" {
		t.Errorf("GoodbyeNTS = %q", cfg.GoodbyeNTS)
	}
	if !cfg.Spoof.Enabled || cfg.Spoof.TTL != 32 || cfg.Spoof.User != "nobody" {
		t.Errorf("Spoof = %+v", cfg.Spoof)
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.HasPrefix(out.String(), "staticssdp ") {
		t.Errorf("version output = %q", out.String())
	}
}
