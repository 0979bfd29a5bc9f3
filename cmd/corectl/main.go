// Command corectl drives an engine core from the command line: it runs
// frame simulations, packs and inspects scene blobs and prints the
// effective configuration.
package main

func main() {
	execute()
}
