package main

import "marketscout/internal/app"

func main() {
	app.Run()
}
