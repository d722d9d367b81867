package main

import "fishlog_backend/internal/app"

func main() {
	app.Run()
}
