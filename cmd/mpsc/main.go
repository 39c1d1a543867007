// Command mpsc stresses and benchmarks the MPSC channel variants.
//
// Usage:
//
//	go run ./cmd/mpsc run --variant weak --producers 1000000
//	go run ./cmd/mpsc bench --producers 8 --messages 1000000
package main

import "github.com/randomizedcoder/go-mpsc/internal/cli"

func main() {
	cli.Main()
}
