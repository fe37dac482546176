//go:build windows

package workdir

// Windows has no umask; directory permissions are handled by ACL
// inheritance instead, so these are no-ops on this platform.
func setUmask() int    { return 0 }
func restoreUmask(int) {}
