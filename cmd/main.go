package main

import (
	"fxhistory/internal/app"

	"github.com/sirupsen/logrus"
)

// @title fxhistory API
// @version 1.0
// @description Historical FX rates: acquisition, backfill and conversion.
// @BasePath /api/v1
func main() {
	if err := app.Run(); err != nil {
		logrus.WithError(err).Fatal("Application stopped")
	}
}
