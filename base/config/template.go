package config

import (
	"os"
	"path/filepath"

	"github.com/LinkinStars/golang-util/gu"
	"gopkg.in/yaml.v3"

	"fim-bench/bench_config"
)

// WriteDefault 生成一份带默认值的config.yml，方便首次部署时修改
func WriteDefault(path string) error {
	cwd, _ := os.Getwd()
	all := &AllConfig{
		Server: ServerConfig{HttpPort: bench_config.GinPort},
		Logger: LoggerConfig{
			Level:        "info",
			Path:         "./logs",
			MaxAge:       7,
			RotationTime: 24,
			RotationSize: 256,
		},
		Paths: PathsConfig{
			ProjectDir: cwd,
			DataDir:    filepath.Join(cwd, "data_raw"),
			ResultsDir: filepath.Join(cwd, "results"),
			FifoDir:    defaultFifoDir(cwd),
		},
		Tools: ToolsConfig{
			SpmfJar:   filepath.Join(cwd, "tools", "spmf.jar"),
			JavaCmd:   defaultJavaCmd(),
			CicladBin: filepath.Join(cwd, "tools", "ciclad"),
			HammBin:   filepath.Join(cwd, "tools", "hamm"),
		},
		Runner: RunnerConfig{
			Jobs:                 defaultJobs(),
			RandomSeed:           bench_config.DefaultRandomSeed,
			StreamJoinTimeoutSec: bench_config.FifoJoinTimeoutSec,
			HammTimeoutSec:       bench_config.HammTimeoutSec,
		},
	}

	out, err := yaml.Marshal(all)
	if err != nil {
		return err
	}
	if err := gu.CreateDirIfNotExist(filepath.Dir(path)); err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}
