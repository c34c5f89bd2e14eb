package main

import (
	"convert-service/app"
	"convert-service/pkg/observability"
)

func main() {
	observability.StartProfiling("convert-worker")
	app.RunWorker()
}
