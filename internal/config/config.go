package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server    ServerConfig
	LLM       LLMConfig
	Store     StoreConfig
	Chat      ChatConfig
	Widget    WidgetConfig
	Log       LogConfig
	Telemetry TelemetryConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	llm, err := loadLLMConfig()
	if err != nil {
		return nil, err
	}

	storeCfg, err := loadStoreConfig()
	if err != nil {
		return nil, err
	}

	chatCfg, err := loadChatConfig()
	if err != nil {
		return nil, err
	}

	widget, err := loadWidgetConfig(server)
	if err != nil {
		return nil, err
	}

	telemetryEnabled, err := parseBoolEnv("TELEMETRY_ENABLED", false)
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:    server,
		LLM:       llm,
		Store:     storeCfg,
		Chat:      chatCfg,
		Widget:    widget,
		Log:       LogConfig{File: strings.TrimSpace(os.Getenv("LOG_FILE"))},
		Telemetry: TelemetryConfig{Enabled: telemetryEnabled},
	}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr string
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "3000"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":3000" 或 "127.0.0.1:3000"。
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// Provider names the generative-language backend used by /api/generate.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderArk    Provider = "ark"
)

// LLMConfig selects and configures the generative-language provider.
type LLMConfig struct {
	Provider Provider
	Gemini   GeminiConfig
	Ark      ArkConfig
}

// Enabled reports whether the selected provider has its credentials.
func (c LLMConfig) Enabled() bool {
	switch c.Provider {
	case ProviderArk:
		return c.Ark.Enabled()
	default:
		return c.Gemini.Enabled()
	}
}

// GeminiConfig 描述 Gemini generateContent 接口配置。密钥只存在于服务端。
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Enabled 表示是否提供了必需的密钥。
func (c GeminiConfig) Enabled() bool {
	return c.APIKey != "" && c.Model != ""
}

// ArkConfig 描述大模型相关配置。
type ArkConfig struct {
	APIKey      string
	AccessKey   string
	SecretKey   string
	Model       string
	BaseURL     string
	Region      string
	Temperature *float64
	TopP        *float64
	MaxTokens   *int
}

// Enabled 表示是否提供了必需的密钥。
func (c ArkConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel 使用配置创建一个模型实例。
func (c ArkConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("Ark 凭证或模型配置缺失，至少提供 ARK_API_KEY + Model 或 AK/SK 组合")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadLLMConfig() (LLMConfig, error) {
	provider := Provider(strings.ToLower(getEnvOrDefault("LLM_PROVIDER", string(ProviderGemini))))
	if provider != ProviderGemini && provider != ProviderArk {
		return LLMConfig{}, fmt.Errorf("invalid LLM_PROVIDER value %q", provider)
	}

	arkCfg, err := loadArkConfig()
	if err != nil {
		return LLMConfig{}, err
	}

	timeout, err := parseSecondsEnv("GEMINI_TIMEOUT", 30*time.Second)
	if err != nil {
		return LLMConfig{}, err
	}

	return LLMConfig{
		Provider: provider,
		Gemini: GeminiConfig{
			APIKey:  strings.TrimSpace(os.Getenv("GOOGLE_API_KEY")),
			Model:   getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
			BaseURL: strings.TrimRight(getEnvOrDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/models"), "/"),
			Timeout: timeout,
		},
		Ark: arkCfg,
	}, nil
}

func loadArkConfig() (ArkConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return ArkConfig{}, err
	}

	topP, err := parseOptionalFloatEnv("ARK_TOP_P")
	if err != nil {
		return ArkConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return ArkConfig{}, err
	}

	return ArkConfig{
		APIKey:      strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:   strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:   strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:       strings.TrimSpace(os.Getenv("Model")),
		BaseURL:     getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:      getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature: temperature,
		TopP:        topP,
		MaxTokens:   maxTokens,
	}, nil
}

// StoreConfig 描述对话历史存储。
type StoreConfig struct {
	Driver string
	Path   string
}

func loadStoreConfig() (StoreConfig, error) {
	driver := strings.ToLower(getEnvOrDefault("STORE", "sqlite"))
	if driver != "sqlite" && driver != "memory" {
		return StoreConfig{}, fmt.Errorf("invalid STORE value %q", driver)
	}
	return StoreConfig{
		Driver: driver,
		Path:   getEnvOrDefault("DB_PATH", "daptic.db"),
	}, nil
}

// ChatConfig 描述 /api/generate 的处理规则。
type ChatConfig struct {
	InstructionFile string
	MaxPromptLen    int
}

func loadChatConfig() (ChatConfig, error) {
	maxLen := 2000
	if override, err := parseOptionalIntEnv("MAX_PROMPT_LEN"); err != nil {
		return ChatConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return ChatConfig{}, fmt.Errorf("invalid MAX_PROMPT_LEN value %d", *override)
		}
		maxLen = *override
	}

	return ChatConfig{
		InstructionFile: getEnvOrDefault("INSTRUCTION_FILE", "instruction.txt"),
		MaxPromptLen:    maxLen,
	}, nil
}

// ReplySource 选择聊天窗口获取回复的方式。
type ReplySource string

const (
	ReplySourceBackend ReplySource = "backend"
	ReplySourceDirect  ReplySource = "direct"
)

// WidgetConfig 描述聊天窗口会话的行为。
type WidgetConfig struct {
	ReplySource    ReplySource
	BackendURL     string
	RequestTimeout time.Duration
	IntentsEnabled bool
	TypingBase     time.Duration
	TypingPerChar  time.Duration
	TypingJitter   time.Duration
}

func loadWidgetConfig(server ServerConfig) (WidgetConfig, error) {
	source := ReplySource(strings.ToLower(getEnvOrDefault("REPLY_SOURCE", string(ReplySourceBackend))))
	if source != ReplySourceBackend && source != ReplySourceDirect {
		return WidgetConfig{}, fmt.Errorf("invalid REPLY_SOURCE value %q", source)
	}

	timeout, err := parseSecondsEnv("REQUEST_TIMEOUT", 30*time.Second)
	if err != nil {
		return WidgetConfig{}, err
	}

	intents, err := parseBoolEnv("INTENTS_ENABLED", true)
	if err != nil {
		return WidgetConfig{}, err
	}

	base, err := parseMillisEnv("TYPING_BASE_MS", 600*time.Millisecond)
	if err != nil {
		return WidgetConfig{}, err
	}
	perChar, err := parseMillisEnv("TYPING_PER_CHAR_MS", 10*time.Millisecond)
	if err != nil {
		return WidgetConfig{}, err
	}
	jitter, err := parseMillisEnv("TYPING_JITTER_MS", 300*time.Millisecond)
	if err != nil {
		return WidgetConfig{}, err
	}

	return WidgetConfig{
		ReplySource:    source,
		BackendURL:     strings.TrimRight(getEnvOrDefault("BACKEND_URL", defaultBackendURL(server.Addr)), "/"),
		RequestTimeout: timeout,
		IntentsEnabled: intents,
		TypingBase:     base,
		TypingPerChar:  perChar,
		TypingJitter:   jitter,
	}, nil
}

// defaultBackendURL points the widget at this same server.
func defaultBackendURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

// LogConfig 描述日志输出。
type LogConfig struct {
	File string
}

// TelemetryConfig 控制 OpenTelemetry 导出。
type TelemetryConfig struct {
	Enabled bool
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseSecondsEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	return parseDurationEnv(key, time.Second, defaultValue)
}

func parseMillisEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	return parseDurationEnv(key, time.Millisecond, defaultValue)
}

// parseDurationEnv reads a non-negative integer count of unit.
func parseDurationEnv(key string, unit, defaultValue time.Duration) (time.Duration, error) {
	val, err := parseOptionalIntEnv(key)
	if err != nil {
		return 0, err
	}
	if val == nil {
		return defaultValue, nil
	}
	if *val < 0 {
		return 0, fmt.Errorf("invalid %s value %d: must not be negative", key, *val)
	}
	return time.Duration(*val) * unit, nil
}
