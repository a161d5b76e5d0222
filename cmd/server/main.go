package main

import (
	"github.com/overlaykit/pixelproof/internal/bootstrap"
)

func main() {
	bootstrap.Run()
}
