package actors

import (
	"registrand/engine/library"
)

func LogCLI(message interface{}, level int) {
	library.LogCLI(message, level)
}
