package privilege

import (
	"fmt"
	"os"
	"os/exec"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"testing"
)

// dropChildEnv makes the test binary run the drop itself. Drop cannot be
// undone, so it runs in a child process rather than in the test process.
const dropChildEnv = "STATICSSDP_PRIVILEGE_DROP_CHILD"

func TestDropClearsGroupsOnAllThreads(t *testing.T) {
	if os.Getenv(dropChildEnv) == "1" {
		if err := dropOnManyThreads(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if os.Getuid() != 0 {
		t.Skip("needs root")
	}
	if dropGroup() == "" {
		t.Skip("no nogroup or nobody group on this system")
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestDropClearsGroupsOnAllThreads$")
	cmd.Env = append(os.Environ(), dropChildEnv+"=1")
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Errorf("drop child failed: %v\n%s", err, out)
	}
}

func dropGroup() string {
	for _, name := range []string{DefaultGroup, "nobody"} {
		if _, err := user.LookupGroup(name); err == nil {
			return name
		}
	}
	return ""
}

// dropOnManyThreads gives every thread supplementary groups, pins a few
// goroutines to their own OS threads, drops, then checks each thread's
// credentials.
func dropOnManyThreads() error {
	if err := syscall.Setgroups([]int{0, 4, 27}); err != nil {
		return fmt.Errorf("seed groups: %w", err)
	}

	release := make(chan struct{})
	defer close(release)
	ready := make(chan struct{})
	for i := 0; i < 4; i++ {
		go func() {
			runtime.LockOSThread()
			ready <- struct{}{}
			<-release
		}()
		<-ready
	}

	if err := Drop(DefaultUser, dropGroup()); err != nil {
		return fmt.Errorf("Drop() error = %w", err)
	}

	tasks, err := filepath.Glob("/proc/self/task/*/status")
	if err != nil || len(tasks) == 0 {
		return fmt.Errorf("list threads: %v (%d found)", err, len(tasks))
	}
	var bad []string
	for _, path := range tasks {
		data, err := os.ReadFile(path)
		if err != nil {
			// The thread exited meanwhile.
			continue
		}
		for _, line := range strings.Split(string(data), "\n") {
			if groups, ok := strings.CutPrefix(line, "Groups:"); ok && strings.TrimSpace(groups) != "" {
				bad = append(bad, fmt.Sprintf("%s: Groups:%s", path, groups))
			}
			if uids, ok := strings.CutPrefix(line, "Uid:"); ok && strings.Fields(uids)[0] == "0" {
				bad = append(bad, fmt.Sprintf("%s: Uid:%s", path, uids))
			}
		}
	}
	if len(bad) > 0 {
		return fmt.Errorf("%d of %d threads keep privileges after Drop:\n%s", len(bad), len(tasks), strings.Join(bad, "\n"))
	}
	return nil
}
