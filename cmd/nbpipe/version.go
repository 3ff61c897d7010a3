package main

import (
	"fmt"
	"runtime/debug"
	"strings"
)

var version = "dev"

var commit = "none"

func versionLine() string {
	if version != "dev" {
		return fmt.Sprintf("nbpipe version %s", version)
	}

	c := strings.TrimSpace(commit)
	if c == "" || c == "none" {
		if bi, ok := debug.ReadBuildInfo(); ok {
			for _, s := range bi.Settings {
				if s.Key == "vcs.revision" && strings.TrimSpace(s.Value) != "" {
					c = strings.TrimSpace(s.Value)
				}
			}
		}
	}

	if c == "" || c == "none" {
		return "nbpipe version dev"
	}
	if len(c) > 7 {
		c = c[:7]
	}
	return fmt.Sprintf("nbpipe version dev (commit %s)", c)
}
