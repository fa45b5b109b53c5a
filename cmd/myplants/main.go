package main

import (
	"MyPlants/internal/bootstrap"
	"MyPlants/pkg/routes"

	"go.uber.org/fx"
)

func main() {
	bootstrap.Loadenv()
	app := fx.New(
		routes.Modules,
	)

	app.Run()
}
