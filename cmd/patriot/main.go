// Command patriot is a command-line client for a Particle Photon fleet.
package main

func main() {
	Execute()
}
