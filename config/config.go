package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

const (
	DefaultListenAddr = ":3000"
	DefaultStaticDir  = "./static"
	DefaultBaseURL    = "http://localhost:3000"
)

type MysqlConfig struct {
	ConnStr         string `mapstructure:"connStr"`
	MaxIdleConns    int    `mapstructure:"maxIdleConns"`
	MaxOpenConns    int    `mapstructure:"maxOpenConns"`
	ConnMaxIdleTime int    `mapstructure:"connMaxIdleTime"`
	ConnMaxLifetime int    `mapstructure:"connMaxLifetime"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Sender   string `mapstructure:"sender"`
}

// AdminConfig seeds the initial admin account on startup.
type AdminConfig struct {
	Username    string `mapstructure:"username"`
	Email       string `mapstructure:"email"`
	Password    string `mapstructure:"password"`
	DisplayName string `mapstructure:"displayName"`
}

type Config struct {
	Debug       bool        `mapstructure:"debug"`
	ListenAddr  string      `mapstructure:"address"`
	BaseURL     string      `mapstructure:"baseURL"`
	SiteName    string      `mapstructure:"siteName"`
	StaticDir   string      `mapstructure:"staticDir"`
	TemplateDir string      `mapstructure:"templateDir"`
	SecretKey   string      `mapstructure:"secretKey"`
	Mysql       MysqlConfig `mapstructure:"mysql"`
	Redis       RedisConfig `mapstructure:"redis"`
	SMTP        SMTPConfig  `mapstructure:"smtp"`
	Admin       AdminConfig `mapstructure:"admin"`
}

func (c *Config) Sanitize() error {
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.StaticDir == "" {
		c.StaticDir = DefaultStaticDir
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.SiteName == "" {
		c.SiteName = "GymFit"
	}
	if c.Mysql.ConnStr == "" {
		return errors.New("mysql connection string is required")
	}
	if c.SecretKey == "" {
		return errors.New("secret key is required")
	}
	return nil
}

func LoadConfig(filename string) (*Config, error) {
	viper.SetConfigFile(filename)
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("GYMFIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Sanitize(); err != nil {
		return nil, err
	}
	return &config, nil
}
