package main

import "resumehub/internal/app"

func main() {
	app.Run()
}
