//go:build windows
// +build windows

package manager

func flushTTYInput() {}
