// Command jackc compiles jack classes into vm code.
package main

func main() {
	Execute()
}
