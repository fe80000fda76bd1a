package config

// Config 是 dammed 的主配置载体。
type Config struct {
	App      AppConfig      `toml:"app"`
	Auth     AuthConfig     `toml:"auth"`
	Store    StoreConfig    `toml:"store"`
	AI       AIConfig       `toml:"ai"`
	Analysis AnalysisConfig `toml:"analysis"`
}

type AppConfig struct {
	Env       string `toml:"env"`
	LogLevel  string `toml:"log_level"`
	HTTPAddr  string `toml:"http_addr"`
	LogPath   string `toml:"log_path"`
	LLMLog    string `toml:"llm_log_path"`
	LLMDump   bool   `toml:"llm_dump"`
	UploadDir string `toml:"upload_dir"`
}

type AuthConfig struct {
	JWTSecret     string `toml:"jwt_secret"`
	TokenTTLHours int    `toml:"token_ttl_hours"`
}

type StoreConfig struct {
	DBPath    string `toml:"db_path"`
	TracePath string `toml:"trace_path"`
}

// AIConfig 包含模型与提示词相关设置。
type AIConfig struct {
	TimeoutSeconds int             `toml:"timeout_seconds"`
	PromptProfile  string          `toml:"prompt_profile"`
	Models         []AIModelConfig `toml:"models"`
}

// AIModelConfig 代表一个可用的推理服务条目。
type AIModelConfig struct {
	ID             string            `toml:"id"`
	Provider       string            `toml:"provider"`
	Enabled        bool              `toml:"enabled"`
	APIURL         string            `toml:"api_url"`
	APIKey         string            `toml:"api_key"`
	Model          string            `toml:"model"`
	Headers        map[string]string `toml:"headers"`
	SupportsVision bool              `toml:"supports_vision"`
}

// AnalysisConfig 控制流水线截断与并发。
type AnalysisConfig struct {
	MaxItems int `toml:"max_items"`
	Workers  int `toml:"workers"`
}
