package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string   `mapstructure:"PORT"`
	DatabasePath   string   `mapstructure:"DATABASE_PATH"`
	LogoPath       string   `mapstructure:"LOGO_PATH"`
	AdminUserID    string   `mapstructure:"ADMIN_USER_ID"`
	AdminUserName  string   `mapstructure:"ADMIN_USER_NAME"`
	AdminUserEmail string   `mapstructure:"ADMIN_USER_EMAIL"`
	AllowedOrigins []string `mapstructure:"ALLOWED_ORIGINS"`
}

func LoadConfig() *Config {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DATABASE_PATH", "shifts.db")
	viper.SetDefault("LOGO_PATH", "")
	viper.SetDefault("ADMIN_USER_ID", "admin")
	viper.SetDefault("ADMIN_USER_NAME", "Admin")
	viper.SetDefault("ADMIN_USER_EMAIL", "")
	viper.SetDefault("ALLOWED_ORIGINS", []string{})

	viper.BindEnv("PORT")
	viper.BindEnv("DATABASE_PATH")
	viper.BindEnv("LOGO_PATH")
	viper.BindEnv("ADMIN_USER_ID")
	viper.BindEnv("ADMIN_USER_NAME")
	viper.BindEnv("ADMIN_USER_EMAIL")
	viper.BindEnv("ALLOWED_ORIGINS")

	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	return &config
}
