package main

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
)

const (
	profileEnv     = "TRAVSPAN_PROFILE"
	profilePathEnv = "TRAVSPAN_PROFILE_PATH"
)

var (
	profileTypes = map[string]func(*profile.Profile){
		"block":     profile.BlockProfile,
		"cpu":       profile.CPUProfile,
		"goroutine": profile.GoroutineProfile,
		"mem":       profile.MemProfile,
		"alloc":     profile.MemProfileAllocs,
		"heap":      profile.MemProfileHeap,
		"mutex":     profile.MutexProfile,
		"clock":     profile.ClockProfile,
		"trace":     profile.TraceProfile,
	}
	profileTypeFlag = rootCmd.PersistentFlags().String("profile", os.Getenv(profileEnv),
		"Enable profiling, one of: "+strings.Join(slices.Sorted(maps.Keys(profileTypes)), ", "))
	profilePathFlag = rootCmd.PersistentFlags().String("profile-path", os.Getenv(profilePathEnv), "Output path for profile")

	activeProfile interface{ Stop() }
)

func init() {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return startProfile()
	}
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		stopProfile()
	}
}

func startProfile() error {
	if *profileTypeFlag == "" || activeProfile != nil {
		return nil
	}
	opt, ok := profileTypes[*profileTypeFlag]
	if !ok {
		return fmt.Errorf("unknown profile type %q", *profileTypeFlag)
	}
	if *profilePathFlag == "" {
		*profilePathFlag = "."
	}
	activeProfile = profile.Start(profile.ProfilePath(*profilePathFlag), opt, profile.NoShutdownHook, profile.Quiet)
	return nil
}

func stopProfile() {
	if activeProfile != nil {
		activeProfile.Stop()
		activeProfile = nil
	}
}
