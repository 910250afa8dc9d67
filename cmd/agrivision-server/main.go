// @title AgriVision API
// @version 1.0
// @description Crop image analysis over multimodal AI providers
// @host localhost:8080
// @BasePath /api
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"agrivision-server/internal/bootstrap"
)

func main() {
	fmt.Printf("[%s] [INFO] [Bootstrap] starting agrivision-server...\n", time.Now().Format("2006-01-02 15:04:05.000"))
	if err := bootstrap.Run(context.Background()); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "agrivision-server failed: %v\n", err)
		os.Exit(1)
	}
}
