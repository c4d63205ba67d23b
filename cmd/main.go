package main

import (
	"github.com/aquavenda/pos/internal/app"
	"github.com/aquavenda/pos/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
