package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App          App          `mapstructure:",squash"`
	Server       Server       `mapstructure:",squash"`
	Database     Database     `mapstructure:",squash"`
	Meta         Meta         `mapstructure:",squash"`
	Auth         Auth         `mapstructure:",squash"`
	Optimization Optimization `mapstructure:",squash"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type Meta struct {
	BaseURL        string    `mapstructure:"meta_base_url"`
	URL            string    `mapstructure:"meta_url"`
	Version        string    `mapstructure:"meta_version"`
	AccessToken    string    `mapstructure:"meta_access_token"`
	AppID          string    `mapstructure:"meta_app_id"`
	AppSecret      string    `mapstructure:"meta_app_secret"`
	LongLivedToken string    `mapstructure:"meta_long_lived_token"`
	TokenExpiresAt time.Time `mapstructure:"-"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Auth struct {
	Secret string `mapstructure:"auth_secret"`
}

// Optimization concentra os parâmetros do motor de otimização automática.
// Os padrões são seguros: dry-run habilitado e execução automática desabilitada,
// de forma que uma configuração recém-criada nunca altera estado em produção.
type Optimization struct {
	TargetCPA                float64 `mapstructure:"optimization_target_cpa"`
	TargetROAS               float64 `mapstructure:"optimization_target_roas"`
	MaxBudgetIncreasePercent float64 `mapstructure:"optimization_max_budget_increase_percent"`
	MinDataDays              int     `mapstructure:"optimization_min_data_days"`
	AutoExecute              bool    `mapstructure:"optimization_auto_execute"`
	DryRun                   bool    `mapstructure:"optimization_dry_run"`
	CronSchedule             string  `mapstructure:"optimization_cycle_cron"`
	CycleEnabled             bool    `mapstructure:"optimization_cycle_enabled"`
	MaxConcurrentJobs        int     `mapstructure:"optimization_max_concurrent_jobs"`
	EntityTimeoutSeconds     int     `mapstructure:"optimization_entity_timeout_seconds"`
	PropagateToMeta          bool    `mapstructure:"optimization_propagate_to_meta"`
}

// Erros de validação da configuração do motor de otimização
var (
	ErrInvalidTargetCPA     = errors.New("target CPA deve ser maior que zero")
	ErrInvalidTargetROAS    = errors.New("target ROAS deve ser maior que zero")
	ErrInvalidMinDataDays   = errors.New("min data days deve ser maior ou igual a 1")
	ErrInvalidMaxConcurrent = errors.New("max concurrent jobs deve ser maior que zero")
)

// Validate valida a configuração do motor antes de iniciar um ciclo.
// Falhas de configuração abortam o ciclo inteiro antes de processar qualquer
// entidade, diferentemente das falhas por entidade, que são isoladas.
func (o Optimization) Validate() error {
	if o.TargetCPA <= 0 {
		return ErrInvalidTargetCPA
	}

	if o.TargetROAS <= 0 {
		return ErrInvalidTargetROAS
	}

	if o.MinDataDays < 1 {
		return ErrInvalidMinDataDays
	}

	if o.MaxConcurrentJobs <= 0 {
		return ErrInvalidMaxConcurrent
	}

	return nil
}

// EntityTimeout retorna o timeout de análise por entidade
func (o Optimization) EntityTimeout() time.Duration {
	if o.EntityTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(o.EntityTimeoutSeconds) * time.Second
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/optimizer")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("META_BASE_URL", "https://graph.facebook.com")
	viper.SetDefault("META_URL", "https://graph.facebook.com/v22.0")
	viper.SetDefault("META_VERSION", "v22.0")
	viper.SetDefault("META_APP_ID", "your_app_id")
	viper.SetDefault("META_APP_SECRET", "your_app_secret")
	viper.SetDefault("META_ACCESS_TOKEN", "your_access_token") // ONLY LOCAL

	viper.SetDefault("AUTH_SECRET", "your_auth_secret")

	// Defaults do motor de otimização
	viper.SetDefault("OPTIMIZATION_TARGET_CPA", 50.0)
	viper.SetDefault("OPTIMIZATION_TARGET_ROAS", 2.0)
	viper.SetDefault("OPTIMIZATION_MAX_BUDGET_INCREASE_PERCENT", 20.0)
	viper.SetDefault("OPTIMIZATION_MIN_DATA_DAYS", 3)
	viper.SetDefault("OPTIMIZATION_AUTO_EXECUTE", false) // Nunca executar por padrão
	viper.SetDefault("OPTIMIZATION_DRY_RUN", true)       // Sempre simular por padrão
	viper.SetDefault("OPTIMIZATION_CYCLE_CRON", "0 7 * * *") // Todos os dias às 7h da manhã
	viper.SetDefault("OPTIMIZATION_CYCLE_ENABLED", false)
	viper.SetDefault("OPTIMIZATION_MAX_CONCURRENT_JOBS", 3)
	viper.SetDefault("OPTIMIZATION_ENTITY_TIMEOUT_SECONDS", 30)
	viper.SetDefault("OPTIMIZATION_PROPAGATE_TO_META", false)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	// Configurar valores padrão
	SetDefaults()

	// Configurar o Viper
	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv() // Isso permite que o Viper leia variáveis de ambiente

	// Tentar ler o arquivo .env com o Viper (opcional, já que usamos godotenv)
	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Meta.URL = fmt.Sprintf("%s/%s", config.Meta.BaseURL, config.Meta.Version)

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	// Obter diretório atual
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),               // Diretório atual
		filepath.Join(filepath.Dir(cwd), ".env"), // Diretório pai
		filepath.Join(cwd, "../.env"),            // Diretório acima
		filepath.Join(cwd, "../../.env"),         // Dois diretórios acima
	}

	for _, location := range locations {
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
