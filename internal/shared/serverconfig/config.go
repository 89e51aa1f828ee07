package serverconfig

import (
	"os"

	"github.com/SoftbearStudios/kiomet/internal/shared/config"
)

const defaultConfigRelPath = "configs/conf.yml"

var Conf Config

func Load(cfgName string) {
	if cfgName == "" {
		cfgName = defaultConfigRelPath
	}
	config.Load(cfgName, &Conf)
	// Environment wins; fall back to the configured jwt_secret for local
	// development.
	if os.Getenv("JWT_SECRET") == "" && Conf.JWTSecret != "" {
		_ = os.Setenv("JWT_SECRET", Conf.JWTSecret)
	}
}
