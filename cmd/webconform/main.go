// Command webconform loads pages into the emulated browser and runs DOM
// conformance suites against it.
package main

func main() {
	Execute()
}
