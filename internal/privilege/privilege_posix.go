//go:build linux || darwin

package privilege

import (
	"fmt"
	"os"
	"os/user"
	"strconv"
	"syscall"

	"golang.org/x/sys/unix"
)

// Drop switches the process to userName and groupName. It does nothing when
// the process is not running as root. Supplementary groups are cleared, the
// group is changed before the user and the umask is set to 0077. Every step
// applies to all threads of the process.
func Drop(userName, groupName string) error {
	if os.Getuid() != 0 {
		return nil
	}
	if userName == "" {
		userName = DefaultUser
	}
	if groupName == "" {
		groupName = DefaultGroup
	}

	uid, gid, err := lookupIDs(userName, groupName)
	if err != nil {
		return err
	}

	// unix.Setgroups only affects the calling thread on linux.
	if err := syscall.Setgroups([]int{}); err != nil {
		return fmt.Errorf("clear supplementary groups: %w", err)
	}
	if err := unix.Setgid(gid); err != nil {
		return fmt.Errorf("setgid %s (%d): %w", groupName, gid, err)
	}
	if err := unix.Setuid(uid); err != nil {
		return fmt.Errorf("setuid %s (%d): %w", userName, uid, err)
	}

	unix.Umask(0o077)
	return nil
}

func lookupIDs(userName, groupName string) (uid, gid int, err error) {
	u, err := user.Lookup(userName)
	if err != nil {
		return 0, 0, fmt.Errorf("lookup user %q: %w", userName, err)
	}
	g, err := user.LookupGroup(groupName)
	if err != nil {
		return 0, 0, fmt.Errorf("lookup group %q: %w", groupName, err)
	}

	uid, err = strconv.Atoi(u.Uid)
	if err != nil {
		return 0, 0, fmt.Errorf("user %q has non-numeric uid %q", userName, u.Uid)
	}
	gid, err = strconv.Atoi(g.Gid)
	if err != nil {
		return 0, 0, fmt.Errorf("group %q has non-numeric gid %q", groupName, g.Gid)
	}
	return uid, gid, nil
}
