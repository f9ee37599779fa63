// Package config loads engine settings from the environment and pricing
// scenarios from YAML files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strconv"

	"github.com/bcdannyboy/sdequant/logger"
	"github.com/joho/godotenv"
	"github.com/shirou/gopsutil/cpu"
)

const (
	EnvSeed      = "SDEQUANT_SEED"
	EnvWorkers   = "SDEQUANT_WORKERS"
	EnvLogLevel  = "SDEQUANT_LOG_LEVEL"
	EnvLogFormat = "SDEQUANT_LOG_FORMAT"
	EnvLogFile   = "SDEQUANT_LOG_FILE"
)

var ErrInvalidSetting = errors.New("invalid setting")

// Engine holds process-wide settings.
type Engine struct {
	Seed    uint64
	Workers int
	Log     logger.Config
}

// LoadEnv reads .env files into the environment and then parses it. A
// missing default .env is not an error; missing named files are.
func LoadEnv(files ...string) (Engine, error) {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Engine{}, fmt.Errorf("loading .env: %w", err)
		}
	} else if err := godotenv.Load(files...); err != nil {
		return Engine{}, fmt.Errorf("loading %v: %w", files, err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv parses settings through getenv.
func FromEnv(getenv func(string) string) (Engine, error) {
	e := Engine{Workers: DefaultWorkers(), Log: logger.DefaultConfig()}

	if v := getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return Engine{}, fmt.Errorf("%w: %s=%q", ErrInvalidSetting, EnvSeed, v)
		}
		e.Seed = seed
	}
	if v := getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Engine{}, fmt.Errorf("%w: %s=%q", ErrInvalidSetting, EnvWorkers, v)
		}
		e.Workers = n
	}
	if v := getenv(EnvLogLevel); v != "" {
		if _, err := logger.ParseLevel(v); err != nil {
			return Engine{}, fmt.Errorf("%w: %s: %v", ErrInvalidSetting, EnvLogLevel, err)
		}
		e.Log.Level = v
	}
	if v := getenv(EnvLogFormat); v != "" {
		if v != "json" && v != "text" {
			return Engine{}, fmt.Errorf("%w: %s=%q", ErrInvalidSetting, EnvLogFormat, v)
		}
		e.Log.Format = v
	}
	e.Log.FilePath = getenv(EnvLogFile)
	return e, nil
}

// DefaultWorkers is the number of logical CPUs.
func DefaultWorkers() int {
	n, err := cpu.Counts(true)
	if err != nil || n < 1 {
		return runtime.NumCPU()
	}
	return n
}
