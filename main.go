package main

import (
	"chyp8/cmd"

	"github.com/faiface/pixel/pixelgl"
)

// pixelgl needs the main thread for the window, so the whole command line
// runs inside it.
func main() {
	pixelgl.Run(runChyp8)
}

func runChyp8() {
	cmd.Execute()
}
