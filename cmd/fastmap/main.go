// cmd/fastmap/main.go
package main

import (
	"fastmap/internal/app"
	"fastmap/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
