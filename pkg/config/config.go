package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Drivers de almacenamiento soportados.
const (
	StoreFirestore = "firestore"
	StorePostgres  = "postgres"
	StoreLocal     = "local"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App      AppConfig
	Log      LogConfig
	HTTP     HTTPConfig
	JWT      JWTConfig
	Store    StoreConfig
	Firebase FirebaseConfig
	DB       DBConfig
	League   LeagueConfig
	Photo    PhotoConfig
	CLI      CLIConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// LogConfig nivel y destino opcional de los logs.
type LogConfig struct {
	Level string
	File  string // vacío = solo stdout
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host               string
	Port               int
	LoginRatePerMinute int
	AllowOrigins       string
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// StoreConfig elige el backend de colecciones de documentos.
type StoreConfig struct {
	Driver       string // firestore, postgres, local
	LocalDataDir string
}

// FirebaseConfig credenciales del proyecto Firestore.
type FirebaseConfig struct {
	ProjectID       string
	CredentialsFile string
}

// Configured indica si hay datos suficientes para abrir Firestore.
func (c FirebaseConfig) Configured() bool {
	return c.ProjectID != ""
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// Configured indica si hay un destino PostgreSQL explícito.
func (c DBConfig) Configured() bool {
	return c.DatabaseURL != "" || c.Host != ""
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// LeagueConfig datos propios de la liga: cuenta de superadministrador y límites de guardado.
type LeagueConfig struct {
	SuperAdminEmail    string
	SuperAdminPassword string
	SaveTimeout        time.Duration
}

// PhotoConfig parámetros del pipeline de fotos y del host de imágenes.
type PhotoConfig struct {
	MaxBytes     int64
	MaxDimension int
	JPEGQuality  int
	APIKey       string
	Endpoint     string
}

// CLIConfig rutas locales del cliente de línea de comandos.
type CLIConfig struct {
	SessionDir string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, STORE_DRIVER, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.MergeInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "liga-formativa"),
		},
		Log: LogConfig{
			Level: getString(v, "LOG_LEVEL", "info"),
			File:  getString(v, "LOG_FILE", ""),
		},
		HTTP: HTTPConfig{
			Host:               getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:               getInt(v, "HTTP_PORT", 8080),
			LoginRatePerMinute: getInt(v, "LOGIN_RATE_PER_MINUTE", 10),
			AllowOrigins:       getString(v, "CORS_ALLOW_ORIGINS", "*"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 720),
			Issuer:     getString(v, "JWT_ISSUER", "liga-formativa"),
		},
		Store: StoreConfig{
			Driver:       strings.ToLower(getString(v, "STORE_DRIVER", StoreFirestore)),
			LocalDataDir: getString(v, "LOCAL_DATA_DIR", "./data"),
		},
		Firebase: FirebaseConfig{
			ProjectID:       getString(v, "FIREBASE_PROJECT_ID", ""),
			CredentialsFile: getString(v, "FIREBASE_CREDENTIALS_FILE", ""),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", ""),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "liga_formativa"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		League: LeagueConfig{
			SuperAdminEmail:    strings.ToLower(strings.TrimSpace(getString(v, "SUPERADMIN_EMAIL", "enripw@gmail.com"))),
			SuperAdminPassword: getString(v, "SUPERADMIN_PASSWORD", "admin"),
			SaveTimeout:        time.Duration(getInt(v, "SAVE_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Photo: PhotoConfig{
			MaxBytes:     int64(getInt(v, "PHOTO_MAX_BYTES", 5*1024*1024)),
			MaxDimension: getInt(v, "PHOTO_MAX_DIMENSION", 800),
			JPEGQuality:  getInt(v, "PHOTO_JPEG_QUALITY", 70),
			APIKey:       getString(v, "IMGBB_API_KEY", ""),
			Endpoint:     getString(v, "IMGBB_ENDPOINT", "https://api.imgbb.com/1/upload"),
		},
		CLI: CLIConfig{
			SessionDir: getString(v, "CLI_SESSION_DIR", "~/.liga-formativa"),
		},
	}

	switch cfg.Store.Driver {
	case StoreFirestore, StorePostgres, StoreLocal:
	default:
		return nil, fmt.Errorf("STORE_DRIVER inválido: %q", cfg.Store.Driver)
	}
	if cfg.Photo.JPEGQuality < 1 || cfg.Photo.JPEGQuality > 100 {
		return nil, fmt.Errorf("PHOTO_JPEG_QUALITY fuera de rango: %d", cfg.Photo.JPEGQuality)
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
