package config

import "os"

func IsDebug() bool {
	return os.Getenv("CTXENGINE_DEBUG") == "1"
}
