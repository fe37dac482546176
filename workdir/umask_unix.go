//go:build !windows

package workdir

import "syscall"

// setUmask restricts group/other permissions on anything this process
// creates from here on, matching the original's umask() call before
// creating the working directory.
func setUmask() int {
	return syscall.Umask(0o077)
}

func restoreUmask(old int) {
	syscall.Umask(old)
}
