package config

import (
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"fim-bench/bench_config"
)

var DefaultPath = "./config"

// AllConfig 全部配置，进程启动时构造一次，之后按引用传递给各组件
type AllConfig struct {
	Server ServerConfig `mapstructure:"server_config" yaml:"server_config"`
	Logger LoggerConfig `mapstructure:"logger_config" yaml:"logger_config"`
	Paths  PathsConfig  `mapstructure:"paths_config" yaml:"paths_config"`
	Tools  ToolsConfig  `mapstructure:"tools_config" yaml:"tools_config"`
	Runner RunnerConfig `mapstructure:"runner_config" yaml:"runner_config"`
}

// ServerConfig 服务配置
type ServerConfig struct {
	HttpPort  string `mapstructure:"http_port" yaml:"http_port"`
	SentryDsn string `mapstructure:"sentry_dsn" yaml:"sentry_dsn"`
}

// LoggerConfig 日志配置
type LoggerConfig struct {
	Level        string        `mapstructure:"level" yaml:"level"`
	Path         string        `mapstructure:"path" yaml:"path"`
	MaxAge       time.Duration `mapstructure:"max_age" yaml:"max_age"`
	RotationTime time.Duration `mapstructure:"rotation_time" yaml:"rotation_time"`
	RotationSize uint32        `mapstructure:"rotation_size" yaml:"rotation_size"`
}

// PathsConfig 数据与结果目录配置
type PathsConfig struct {
	ProjectDir string `mapstructure:"project_dir" yaml:"project_dir"`
	DataDir    string `mapstructure:"data_dir" yaml:"data_dir"`
	ResultsDir string `mapstructure:"results_dir" yaml:"results_dir"`
	// FifoDir 流式模式下命名管道的存放目录，文件系统需支持mkfifo
	FifoDir string `mapstructure:"fifo_dir" yaml:"fifo_dir"`
}

// ToolsConfig 外部挖掘工具配置
type ToolsConfig struct {
	SpmfJar   string `mapstructure:"spmf_jar" yaml:"spmf_jar"`
	JavaCmd   string `mapstructure:"java_cmd" yaml:"java_cmd"`
	CicladBin string `mapstructure:"ciclad_bin" yaml:"ciclad_bin"`
	HammBin   string `mapstructure:"hamm_bin" yaml:"hamm_bin"`
}

// RunnerConfig 跑批执行配置
type RunnerConfig struct {
	Jobs                 int   `mapstructure:"jobs" yaml:"jobs"`
	RandomSeed           int64 `mapstructure:"random_seed" yaml:"random_seed"`
	KeepPatternFiles     bool  `mapstructure:"keep_pattern_files" yaml:"keep_pattern_files"`
	StreamJoinTimeoutSec int   `mapstructure:"stream_join_timeout_sec" yaml:"stream_join_timeout_sec"`
	HammTimeoutSec       int   `mapstructure:"hamm_timeout_sec" yaml:"hamm_timeout_sec"`
}

// InitConfig 初始化读取配置文件，config.yml缺失时使用内置默认值
func InitConfig() (*AllConfig, error) {
	v := viper.New()
	v.AddConfigPath(DefaultPath)
	v.SetConfigName("config")
	v.SetConfigType("yml")

	setDefaults(v)
	bindEnvs(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		log.Printf("no config file under %s, using defaults", DefaultPath)
	} else {
		// 监控配置文件变化
		v.WatchConfig()
		v.OnConfigChange(func(e fsnotify.Event) {
			log.Printf("Config file changed: %s", e.Name)
		})
	}

	all := &AllConfig{}
	if err := v.Unmarshal(all); err != nil {
		return nil, err
	}
	fillZero(all)
	return all, nil
}

// setDefaults 默认值与原实验脚本的环境变量默认保持一致
func setDefaults(v *viper.Viper) {
	cwd, _ := os.Getwd()
	v.SetDefault("server_config.http_port", bench_config.GinPort)
	v.SetDefault("logger_config.level", "info")
	v.SetDefault("logger_config.path", "./logs")
	v.SetDefault("logger_config.max_age", 7)
	v.SetDefault("logger_config.rotation_time", 24)
	v.SetDefault("logger_config.rotation_size", 256)
	v.SetDefault("paths_config.project_dir", cwd)
	v.SetDefault("paths_config.data_dir", filepath.Join(cwd, "data_raw"))
	v.SetDefault("paths_config.results_dir", filepath.Join(cwd, "results"))
	v.SetDefault("paths_config.fifo_dir", defaultFifoDir(cwd))
	v.SetDefault("tools_config.spmf_jar", filepath.Join(cwd, "tools", "spmf.jar"))
	v.SetDefault("tools_config.java_cmd", defaultJavaCmd())
	v.SetDefault("tools_config.ciclad_bin", filepath.Join(cwd, "tools", "ciclad"))
	v.SetDefault("tools_config.hamm_bin", filepath.Join(cwd, "tools", "hamm"))
	v.SetDefault("runner_config.jobs", defaultJobs())
	v.SetDefault("runner_config.random_seed", bench_config.DefaultRandomSeed)
	v.SetDefault("runner_config.keep_pattern_files", false)
	v.SetDefault("runner_config.stream_join_timeout_sec", bench_config.FifoJoinTimeoutSec)
	v.SetDefault("runner_config.hamm_timeout_sec", bench_config.HammTimeoutSec)
}

// bindEnvs 环境变量覆盖，保持与原脚本一致的变量名
func bindEnvs(v *viper.Viper) {
	_ = v.BindEnv("paths_config.project_dir", "PROJECT_DIR")
	_ = v.BindEnv("paths_config.data_dir", "DATA_DIR")
	_ = v.BindEnv("paths_config.results_dir", "RESULTS_DIR")
	_ = v.BindEnv("paths_config.fifo_dir", "PATTERN_FIFO_DIR")
	_ = v.BindEnv("tools_config.spmf_jar", "SPMF_JAR")
	_ = v.BindEnv("tools_config.java_cmd", "JAVA_CMD")
	_ = v.BindEnv("tools_config.ciclad_bin", "CICLAD_BIN")
	_ = v.BindEnv("tools_config.hamm_bin", "HAMM_BIN")
	_ = v.BindEnv("runner_config.random_seed", "RANDOM_SEED")
}

// fillZero 兜底异常配置
func fillZero(all *AllConfig) {
	if all.Runner.Jobs <= 0 {
		all.Runner.Jobs = defaultJobs()
	}
	if all.Runner.StreamJoinTimeoutSec <= 0 {
		all.Runner.StreamJoinTimeoutSec = bench_config.FifoJoinTimeoutSec
	}
	if all.Runner.HammTimeoutSec <= 0 {
		all.Runner.HammTimeoutSec = bench_config.HammTimeoutSec
	}
	if all.Paths.FifoDir == "" {
		all.Paths.FifoDir = defaultFifoDir(all.Paths.ProjectDir)
	}
}

// defaultFifoDir 优先级: PATTERN_FIFO_DIR > TMPDIR > results/_fifo_patterns
func defaultFifoDir(projectDir string) string {
	if d := os.Getenv("PATTERN_FIFO_DIR"); d != "" {
		return d
	}
	if d := os.Getenv("TMPDIR"); d != "" {
		return d
	}
	return filepath.Join(projectDir, "results", "_fifo_patterns")
}

func defaultJavaCmd() string {
	if p, err := exec.LookPath("java"); err == nil {
		return p
	}
	return "java"
}

// defaultJobs 默认并发为CPU核数的一半
func defaultJobs() int {
	n := runtime.NumCPU() / 2
	if n < 1 {
		n = 1
	}
	return n
}
