package main

import "staffdir/internal/app"

func main() {
	app.Main()
}
